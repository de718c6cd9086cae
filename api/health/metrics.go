package health

import (
	"sinemagic_server/content"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sinemagic",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sinemagic",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ContentSyncFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sinemagic",
			Subsystem: "content",
			Name:      "sync_failures_total",
			Help:      "Remote fetches or seeds that failed during a content refresh",
		},
		[]string{"entity"},
	)

	RemoteWriteAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sinemagic",
			Subsystem: "content",
			Name:      "remote_write_alerts_total",
			Help:      "Admin writes that the remote store did not confirm",
		},
		[]string{"level"},
	)
)

// RecordSyncReport counts the failed entities of a content refresh.
func RecordSyncReport(report *content.SyncReport) {
	for _, entity := range report.Failed() {
		ContentSyncFailures.WithLabelValues(entity).Inc()
	}
}
