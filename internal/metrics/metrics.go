// Package metrics provides lightweight hooks for instrumentation.
package metrics

import (
	"time"

	"github.com/promptforge/promptforge/internal/model"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLoginSuccess()
	IncLoginFailure()

	// Refine pipeline metrics
	IncRefineSucceeded(tier model.Tier)
	IncRefineUpstreamError(tier model.Tier)
	IncQuotaExhausted(tier model.Tier)
	ObserveRefineDuration(tier model.Tier, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
