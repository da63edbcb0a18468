package handler

import (
	"fmt"
	"net/http"

	"github.com/promptforge/promptforge/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "promptforge_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "promptforge_logins_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "promptforge_logins_total{status=\"failure\"} %d\n", snap.LoginFailures)

	writeMetric(w, "promptforge_refines_total{tier=\"basic\"} %d\n", snap.BasicRefinesSucceeded)
	writeMetric(w, "promptforge_refines_total{tier=\"pro\"} %d\n", snap.ProRefinesSucceeded)
	writeMetric(w, "promptforge_refine_upstream_errors_total %d\n", snap.UpstreamErrors)
	writeMetric(w, "promptforge_quota_exhaustions_total %d\n", snap.QuotaExhaustions)

	writeMetric(w, "promptforge_refine_duration_seconds_count %d\n", snap.RefineDurationCount)
	writeMetric(w, "promptforge_refine_duration_seconds_sum %.6f\n", float64(snap.RefineDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
