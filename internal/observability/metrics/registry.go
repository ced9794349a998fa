// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks the number of active HTTP connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Business metrics track lineage, quality and collection activity
var (
	// SourcesTotal tracks the number of registered sources
	SourcesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sources_total",
			Help: "Total number of sources in the store",
		},
	)

	// DataEntriesTotal tracks the number of stored data entries
	DataEntriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "data_entries_total",
			Help: "Total number of data entries in the store",
		},
	)

	// LineageCoverageRatio is the share of entries with at least one lineage record
	LineageCoverageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lineage_coverage_ratio",
			Help: "Fraction of data entries that have at least one lineage record",
		},
	)

	// LineageRecordsCreatedTotal counts created lineage records by initial status
	LineageRecordsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineage_records_created_total",
			Help: "Total number of lineage records created",
		},
		[]string{"status"},
	)

	// LineageValidationsTotal counts validate operations by resulting status
	LineageValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineage_validations_total",
			Help: "Total number of lineage validations",
		},
		[]string{"status"},
	)

	// QualityReportDuration measures time to build the quality report
	QualityReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quality_report_duration_seconds",
			Help:    "Time taken to aggregate the quality report",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	// CollectorRunsTotal counts collector runs by result
	CollectorRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_runs_total",
			Help: "Total number of collector runs",
		},
		[]string{"collector", "status"}, // status: success, failure
	)

	// CollectorRunDuration measures time to complete a collector run
	CollectorRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collector_run_duration_seconds",
			Help:    "Time taken by a collector run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"collector"},
	)

	// EntriesCollectedTotal counts entries stored by collectors
	EntriesCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entries_collected_total",
			Help: "Total number of data entries stored by collectors",
		},
		[]string{"collector", "source_id"},
	)

	// EntriesDuplicatedTotal counts collected items skipped because their hash was already stored
	EntriesDuplicatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entries_duplicated_total",
			Help: "Total number of collected items skipped as duplicates",
		},
		[]string{"collector"},
	)

	// CollectorFetchErrors counts failed upstream fetches
	CollectorFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_fetch_errors_total",
			Help: "Total number of upstream fetch errors during collection",
		},
		[]string{"collector", "error_type"},
	)
)

// Resilience metrics. Connection pool gauges come from the
// collectors.NewDBStatsCollector registered by the API server.
var (
	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts state changes by target state.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "to"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
