package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"geodata/internal/handler/http/pathutil"
	"geodata/internal/observability/metrics"
	"geodata/internal/observability/slo"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// httpRequestsInFlight tracks the current number of HTTP requests being processed.
var httpRequestsInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	},
)

// Metrics returns middleware recording request count, duration and sizes
// under the normalized route. When tracker is non-nil every finished
// request is also fed to the SLO window.
func Metrics(tracker *slo.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()
			metrics.ActiveConnections.Inc()
			defer metrics.ActiveConnections.Dec()

			// /api/tags/123 -> /api/tags/:id
			normalizedPath := pathutil.NormalizePath(r.URL.Path)

			rec := newStatusRecorder(w)
			start := time.Now()
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			status := rec.status
			metrics.RecordHTTPRequest(r.Method, normalizedPath, strconv.Itoa(status),
				duration, int(r.ContentLength), rec.bytes)
			if tracker != nil {
				tracker.Observe(status, duration)
			}
		})
	}
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// StartSLOFlush publishes the SLO window of tracker every interval until
// ctx is cancelled. It blocks; run it in a goroutine.
func StartSLOFlush(ctx context.Context, tracker *slo.Tracker, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w := tracker.Flush()
			slog.Debug("slo window published",
				slog.Int("requests", w.Requests),
				slog.Float64("availability", w.Availability),
				slog.Duration("p95", w.P95))
		}
	}
}
