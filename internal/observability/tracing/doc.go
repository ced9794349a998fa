// Package tracing provides OpenTelemetry tracing integration.
//
// InitTracer installs the global provider and propagators. Middleware starts
// a server span per HTTP request and echoes the trace ID in X-Trace-Id.
// Usecases wrap their operations with StartSpan and EndSpan:
//
//	ctx, span := tracing.StartSpan(ctx, "lineage.Validate")
//	defer func() { tracing.EndSpan(span, err) }()
package tracing
