package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/promptforge/promptforge/internal/llm"
	"github.com/promptforge/promptforge/internal/metrics"
	"github.com/promptforge/promptforge/internal/model"
)

// Refine service errors.
var (
	ErrEmptyPrompt   = errors.New("prompt is required")
	ErrPromptTooLong = errors.New("prompt exceeds maximum length")
	ErrInvalidTier   = errors.New("unknown tier")
	ErrUpstream      = llm.ErrUpstream
)

// RefineService runs the quota-gated refine pipeline:
// validate, check quota, wrap in the tier template, call the provider,
// sanitize, and only then commit the quota decrement. A failure at any
// step before the commit leaves the counters untouched.
type RefineService struct {
	ledger          *QuotaLedger
	providers       map[model.Tier]llm.Provider
	templates       map[model.Tier]PromptTemplate
	upstreamTimeout time.Duration
	maxPromptChars  int
	metrics         metrics.Recorder
	logger          *slog.Logger
}

// RefineConfig holds construction parameters for RefineService.
type RefineConfig struct {
	Ledger          *QuotaLedger
	Providers       map[model.Tier]llm.Provider
	Templates       map[model.Tier]PromptTemplate
	UpstreamTimeout time.Duration
	MaxPromptChars  int
	Metrics         metrics.Recorder
	Logger          *slog.Logger
}

// NewRefineService creates a RefineService.
func NewRefineService(cfg RefineConfig) *RefineService {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Templates == nil {
		cfg.Templates = DefaultTemplates()
	}
	return &RefineService{
		ledger:          cfg.Ledger,
		providers:       cfg.Providers,
		templates:       cfg.Templates,
		upstreamTimeout: cfg.UpstreamTimeout,
		maxPromptChars:  cfg.MaxPromptChars,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
	}
}

// RefineResult is the outcome of a successful refine call.
type RefineResult struct {
	Tier      model.Tier
	Text      string
	Remaining int
}

// Refine transforms a raw prompt through the tier's provider.
// Quota is spent only on success; every failure path leaves the
// caller's counters exactly as they were.
func (s *RefineService) Refine(ctx context.Context, userID string, tier model.Tier, rawPrompt string) (*RefineResult, error) {
	if !tier.IsValid() {
		return nil, ErrInvalidTier
	}

	rawPrompt = strings.TrimSpace(rawPrompt)
	if rawPrompt == "" {
		return nil, ErrEmptyPrompt
	}
	if s.maxPromptChars > 0 && len(rawPrompt) > s.maxPromptChars {
		return nil, ErrPromptTooLong
	}

	// Reject exhausted users before paying for an upstream call. This
	// read is advisory only; the commit below is what actually spends.
	if _, err := s.ledger.Check(ctx, userID, tier); err != nil {
		return nil, err
	}

	provider, ok := s.providers[tier]
	if !ok {
		return nil, ErrInvalidTier
	}

	prompt := s.templates[tier].Render(rawPrompt)

	callCtx := ctx
	if s.upstreamTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.upstreamTimeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := provider.Generate(callCtx, prompt)
	duration := time.Since(start)
	s.metrics.ObserveRefineDuration(tier, duration)

	if err != nil {
		s.metrics.IncRefineUpstreamError(tier)
		s.logger.Warn("upstream call failed",
			slog.String("provider", provider.Name()),
			slog.String("tier", string(tier)),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, llm.ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", llm.ErrUpstream, err)
	}

	text := llm.Sanitize(raw)
	if text == "" {
		s.metrics.IncRefineUpstreamError(tier)
		return nil, fmt.Errorf("%w: empty output after sanitization", llm.ErrUpstream)
	}

	// Commit last. A request that loses the race on the final unit has
	// already received its generation but is not charged and gets the
	// quota-exceeded response.
	remaining, err := s.ledger.Commit(ctx, userID, tier)
	if err != nil {
		return nil, err
	}

	s.metrics.IncRefineSucceeded(tier)

	return &RefineResult{
		Tier:      tier,
		Text:      text,
		Remaining: remaining,
	}, nil
}
