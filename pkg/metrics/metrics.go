package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RefreshTotal counts completed fleet refreshes.
	RefreshTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_refresh_total",
		Help: "Total number of completed fleet refreshes.",
	})

	// RefreshDuration observes the wall-clock cost of a fleet refresh.
	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "portfolio_refresh_duration_seconds",
		Help:    "Duration of fleet refreshes in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	// UpstreamFailures counts component fetches that degraded to zero, by
	// source ("chain" or "data_api").
	UpstreamFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_upstream_failures_total",
		Help: "Total number of upstream fetches that degraded to a zero component.",
	}, []string{"source"})

	// SnapshotPersistFailures counts best-effort snapshot appends that failed.
	SnapshotPersistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_snapshot_persist_failures_total",
		Help: "Total number of snapshot store appends that failed.",
	})
)

// MustRegisterMetrics registers all collectors with the default registry.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		RefreshTotal,
		RefreshDuration,
		UpstreamFailures,
		SnapshotPersistFailures,
	)
}
