package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/promptforge/promptforge/internal/metrics"
	"github.com/promptforge/promptforge/internal/model"
	"github.com/promptforge/promptforge/internal/repository"
)

// Quota ledger errors.
var (
	ErrQuotaExceeded = errors.New("quota exceeded for tier")
	ErrUserNotFound  = errors.New("user not found")
)

// QuotaLedger enforces the per-user, per-tier usage budgets.
//
// Check is a plain read used to reject obviously exhausted requests
// before the expensive upstream call. Commit is the authoritative
// operation: a single conditional update that decrements only when the
// counter is still positive, so concurrent requests can never overdraw
// the budget no matter how their checks interleaved.
type QuotaLedger struct {
	store        UserStore
	basicDefault int
	proDefault   int
	metrics      metrics.Recorder
}

// NewQuotaLedger creates a ledger backed by the given store.
func NewQuotaLedger(store UserStore, basicDefault, proDefault int, recorder metrics.Recorder) *QuotaLedger {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &QuotaLedger{
		store:        store,
		basicDefault: basicDefault,
		proDefault:   proDefault,
		metrics:      recorder,
	}
}

// Check returns the tier's current remaining count, or ErrQuotaExceeded
// when it is zero. It does not reserve anything; Commit is what spends.
func (l *QuotaLedger) Check(ctx context.Context, userID string, tier model.Tier) (int, error) {
	user, err := l.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to read quota: %w", err)
	}

	remaining := user.Remaining(tier)
	if remaining <= 0 {
		l.metrics.IncQuotaExhausted(tier)
		return 0, ErrQuotaExceeded
	}

	return remaining, nil
}

// Commit spends one unit of the tier's quota. The decrement is atomic
// and conditional; the loser of a race on the last unit gets
// ErrQuotaExceeded and is not charged.
func (l *QuotaLedger) Commit(ctx context.Context, userID string, tier model.Tier) (int, error) {
	remaining, err := l.store.ConsumeQuota(ctx, userID, tier)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrQuotaExhausted):
			l.metrics.IncQuotaExhausted(tier)
			return 0, ErrQuotaExceeded
		case errors.Is(err, repository.ErrUserNotFound):
			return 0, ErrUserNotFound
		default:
			return 0, fmt.Errorf("failed to commit quota: %w", err)
		}
	}

	return remaining, nil
}

// Reset restores every user's counters to the configured defaults.
// Returns the number of users touched.
func (l *QuotaLedger) Reset(ctx context.Context) (int64, error) {
	affected, err := l.store.ResetQuotas(ctx, l.basicDefault, l.proDefault)
	if err != nil {
		return 0, fmt.Errorf("failed to reset quotas: %w", err)
	}
	return affected, nil
}
