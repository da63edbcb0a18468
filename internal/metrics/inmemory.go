package metrics

import (
	"sync/atomic"
	"time"

	"github.com/promptforge/promptforge/internal/model"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered       uint64
	LoginSuccesses        uint64
	LoginFailures         uint64
	BasicRefinesSucceeded uint64
	ProRefinesSucceeded   uint64
	UpstreamErrors        uint64
	QuotaExhaustions      uint64
	RefineDurationCount   uint64
	RefineDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered       uint64
	loginSuccesses        uint64
	loginFailures         uint64
	basicRefinesSucceeded uint64
	proRefinesSucceeded   uint64
	upstreamErrors        uint64
	quotaExhaustions      uint64
	refineDurationCount   uint64
	refineDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:       atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:        atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:         atomic.LoadUint64(&m.loginFailures),
		BasicRefinesSucceeded: atomic.LoadUint64(&m.basicRefinesSucceeded),
		ProRefinesSucceeded:   atomic.LoadUint64(&m.proRefinesSucceeded),
		UpstreamErrors:        atomic.LoadUint64(&m.upstreamErrors),
		QuotaExhaustions:      atomic.LoadUint64(&m.quotaExhaustions),
		RefineDurationCount:   atomic.LoadUint64(&m.refineDurationCount),
		RefineDurationTotalNs: atomic.LoadInt64(&m.refineDurationTotalNs),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() {
	atomic.AddUint64(&m.loginSuccesses, 1)
}

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() {
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncRefineSucceeded increments the per-tier success counter.
func (m *InMemoryRecorder) IncRefineSucceeded(tier model.Tier) {
	if tier == model.TierPro {
		atomic.AddUint64(&m.proRefinesSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.basicRefinesSucceeded, 1)
}

// IncRefineUpstreamError increments the upstream failure counter.
func (m *InMemoryRecorder) IncRefineUpstreamError(tier model.Tier) {
	atomic.AddUint64(&m.upstreamErrors, 1)
}

// IncQuotaExhausted increments the quota exhaustion counter.
func (m *InMemoryRecorder) IncQuotaExhausted(tier model.Tier) {
	atomic.AddUint64(&m.quotaExhaustions, 1)
}

// ObserveRefineDuration records refine call duration.
func (m *InMemoryRecorder) ObserveRefineDuration(tier model.Tier, duration time.Duration) {
	atomic.AddUint64(&m.refineDurationCount, 1)
	atomic.AddInt64(&m.refineDurationTotalNs, duration.Nanoseconds())
}
