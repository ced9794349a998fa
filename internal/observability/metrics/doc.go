// Package metrics provides the Prometheus metrics registry and recording helpers.
//
// Metric groups:
//   - HTTP request metrics (duration, count, size)
//   - Business metrics (lineage records, validations, quality report, collectors)
//   - Database pool and operation metrics
//
// All metrics register with the Prometheus default registry through promauto
// and are exposed on /metrics.
//
// Example usage:
//
//	start := time.Now()
//	result, err := collector.Collect(ctx)
//	metrics.RecordCollectorRun("cia_factbook", err == nil, time.Since(start))
package metrics
