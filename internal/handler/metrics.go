package handler

import (
	"fmt"
	"net/http"

	"github.com/bloglist/bloglist/internal/metrics"
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

	writeMetric(w, "bloglist_http_request_duration_seconds_count %d\n", snap.RequestDurationCount)
	writeMetric(w, "bloglist_http_request_duration_seconds_sum %.6f\n", float64(snap.RequestDurationTotalNs)/1e9)

	writeMetric(w, "bloglist_blogs_created_total %d\n", snap.BlogsCreated)
	writeMetric(w, "bloglist_blogs_updated_total %d\n", snap.BlogsUpdated)
	writeMetric(w, "bloglist_blogs_deleted_total %d\n", snap.BlogsDeleted)

	writeMetric(w, "bloglist_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "bloglist_users_deleted_total %d\n", snap.UsersDeleted)

	writeMetric(w, "bloglist_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "bloglist_logins_total{status=\"failed\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "bloglist_logins_total{status=\"rate_limited\"} %d\n", snap.LoginsRateLimited)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
