package metrics

import (
	"time"

	"github.com/promptforge/promptforge/internal/model"
)

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginSuccess is a no-op.
func (n *NoopRecorder) IncLoginSuccess() {}

// IncLoginFailure is a no-op.
func (n *NoopRecorder) IncLoginFailure() {}

// IncRefineSucceeded is a no-op.
func (n *NoopRecorder) IncRefineSucceeded(tier model.Tier) {}

// IncRefineUpstreamError is a no-op.
func (n *NoopRecorder) IncRefineUpstreamError(tier model.Tier) {}

// IncQuotaExhausted is a no-op.
func (n *NoopRecorder) IncQuotaExhausted(tier model.Tier) {}

// ObserveRefineDuration is a no-op.
func (n *NoopRecorder) ObserveRefineDuration(tier model.Tier, duration time.Duration) {}
