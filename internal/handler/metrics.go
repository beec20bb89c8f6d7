package handler

import (
	"fmt"
	"net/http"

	"github.com/chirp/chirp/internal/metrics"
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

	writeMetric(w, "chirp_cache_hits_total{entity=\"user\"} %d\n", snap.UserCacheHits)
	writeMetric(w, "chirp_cache_hits_total{entity=\"post\"} %d\n", snap.PostCacheHits)
	writeMetric(w, "chirp_cache_misses_total{entity=\"user\"} %d\n", snap.UserCacheMisses)
	writeMetric(w, "chirp_cache_misses_total{entity=\"post\"} %d\n", snap.PostCacheMisses)

	writeMetric(w, "chirp_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "chirp_users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "chirp_users_deleted_total %d\n", snap.UsersDeleted)

	writeMetric(w, "chirp_posts_created_total %d\n", snap.PostsCreated)
	writeMetric(w, "chirp_posts_updated_total %d\n", snap.PostsUpdated)
	writeMetric(w, "chirp_posts_deleted_total %d\n", snap.PostsDeleted)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
