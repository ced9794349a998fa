package metrics

import (
	"time"
)

// RecordLineageCreated counts a newly created lineage record.
func RecordLineageCreated(status string) {
	LineageRecordsCreatedTotal.WithLabelValues(status).Inc()
}

// RecordLineageValidated counts a validate operation by the status it set.
func RecordLineageValidated(status string) {
	LineageValidationsTotal.WithLabelValues(status).Inc()
}

// RecordQualityReport records how long the quality report aggregation took.
func RecordQualityReport(duration time.Duration) {
	QualityReportDuration.Observe(duration.Seconds())
}

// UpdateCoverage publishes the store-wide entry and coverage gauges.
func UpdateCoverage(totalEntries, entriesWithLineage int64) {
	DataEntriesTotal.Set(float64(totalEntries))
	if totalEntries == 0 {
		LineageCoverageRatio.Set(0)
		return
	}
	LineageCoverageRatio.Set(float64(entriesWithLineage) / float64(totalEntries))
}

// UpdateSourcesTotal updates the total count of sources in the store.
func UpdateSourcesTotal(count int) {
	SourcesTotal.Set(float64(count))
}

// RecordCollectorRun records the outcome and duration of one collector run.
func RecordCollectorRun(collector string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	CollectorRunsTotal.WithLabelValues(collector, status).Inc()
	CollectorRunDuration.WithLabelValues(collector).Observe(duration.Seconds())
}

// RecordEntriesCollected records entries stored for a source by a collector.
func RecordEntriesCollected(collector, sourceID string, count int) {
	if count <= 0 {
		return
	}
	EntriesCollectedTotal.WithLabelValues(collector, sourceID).Add(float64(count))
}

// RecordEntriesDuplicated records items skipped because their content hash already exists.
func RecordEntriesDuplicated(collector string, count int) {
	if count <= 0 {
		return
	}
	EntriesDuplicatedTotal.WithLabelValues(collector).Add(float64(count))
}

// RecordCollectorFetchError records a failed upstream fetch.
// errorType is a short classification such as "status", "timeout" or "circuit_open".
func RecordCollectorFetchError(collector, errorType string) {
	CollectorFetchErrors.WithLabelValues(collector, errorType).Inc()
}

// RecordBreakerState publishes a circuit breaker transition. state uses
// gobreaker's numbering (0 closed, 1 half-open, 2 open).
func RecordBreakerState(name string, state int, to string) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	CircuitBreakerTransitions.WithLabelValues(name, to).Inc()
}
