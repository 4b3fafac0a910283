// Package observability provides Prometheus metrics and OpenTelemetry tracing setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PhotoUploads counts successful photo uploads by storage backend kind.
	PhotoUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoshare_photo_uploads_total",
		Help: "Total number of successful photo uploads by storage backend",
	}, []string{"backend"})

	// PhotoUploadFailures counts failed photo uploads by failure stage.
	PhotoUploadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoshare_photo_upload_failures_total",
		Help: "Total number of failed photo uploads by stage (decode, storage, persist)",
	}, []string{"stage"})

	// CommentsRejected counts comments blocked by the sentiment filter.
	CommentsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoshare_comments_rejected_total",
		Help: "Total number of comments rejected for strongly negative sentiment",
	})

	// StorageErrors counts storage backend errors by operation and backend kind.
	StorageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoshare_storage_errors_total",
		Help: "Total number of storage backend errors by operation",
	}, []string{"operation", "backend"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoshare_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "photoshare_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
