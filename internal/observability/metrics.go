package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hayai_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// TransformsTotal counts transform requests by style and outcome
	// (approved, rejected, failed).
	TransformsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hayai_transforms_total",
		Help: "Total number of transform requests by style and outcome",
	}, []string{"style", "outcome"})

	// TransformLatency records end-to-end transform call latency per style.
	TransformLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hayai_transform_latency_seconds",
		Help:    "Transform service call latency in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"style"})

	// UploadBytes records the size of accepted drawing uploads.
	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hayai_upload_bytes",
		Help:    "Size in bytes of accepted drawing uploads",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})

	// InteractionsTotal counts likes, unlikes and comments.
	InteractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hayai_interactions_total",
		Help: "Total number of post interactions by kind",
	}, []string{"kind"})
)

// Transform outcome labels.
const (
	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// ObserveTransform records a finished transform attempt.
func ObserveTransform(style, outcome string, start time.Time) {
	TransformsTotal.WithLabelValues(style, outcome).Inc()
	TransformLatency.WithLabelValues(style).Observe(time.Since(start).Seconds())
}

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
