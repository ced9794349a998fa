// Package observability groups the logging, metrics and tracing
// infrastructure shared by the API server, the worker and geoctl.
//
// Subpackages:
//   - logging: structured slog loggers with request ID propagation
//   - metrics: Prometheus HTTP, lineage and collector metrics
//   - tracing: OpenTelemetry tracer setup and HTTP middleware
//   - slo: service level gauges derived from the HTTP metrics
//
// Example usage:
//
//	import (
//	    "geodata/internal/observability/logging"
//	    "geodata/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordCollectorRun("cia_factbook", true, 3*time.Second)
//	}
package observability
