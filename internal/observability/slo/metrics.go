// Package slo publishes service level gauges for the API server.
package slo

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for the geodata API.
const (
	// AvailabilitySLO is the target percentage of non-5xx responses.
	AvailabilitySLO = 99.9

	// LatencyP95SLO is the p95 latency target in seconds.
	LatencyP95SLO = 0.200

	// LatencyP99SLO is the p99 latency target in seconds.
	LatencyP99SLO = 0.500

	// ErrorRateSLO is the maximum 5xx ratio.
	ErrorRateSLO = 0.001
)

var (
	SLOAvailability = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_availability_ratio",
		Help: "Availability ratio (0-1) over the last window, target: 0.999",
	})

	SLOLatencyP95 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_latency_p95_seconds",
		Help: "p95 latency in seconds over the last window, target: 0.200",
	})

	SLOLatencyP99 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_latency_p99_seconds",
		Help: "p99 latency in seconds over the last window, target: 0.500",
	})

	SLOErrorRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_error_rate_ratio",
		Help: "5xx ratio (0-1) over the last window, target: 0.001",
	})
)

// maxSamples caps the latencies kept per window.
const maxSamples = 10000

// Window is the outcome summary of one Tracker window.
type Window struct {
	Requests     int
	ServerErrors int
	Availability float64
	ErrorRate    float64
	P95          time.Duration
	P99          time.Duration
}

// Tracker accumulates request outcomes between flushes. It is safe for
// concurrent use.
type Tracker struct {
	mu        sync.Mutex
	requests  int
	errors    int
	latencies []time.Duration
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{latencies: make([]time.Duration, 0, 256)}
}

// Observe records one finished request.
func (t *Tracker) Observe(status int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests++
	if status >= 500 {
		t.errors++
	}
	if len(t.latencies) < maxSamples {
		t.latencies = append(t.latencies, d)
	}
}

// Flush computes the current window, publishes it to the SLO gauges and
// starts a new window. An empty window reports full availability.
func (t *Tracker) Flush() Window {
	t.mu.Lock()
	w := Window{Requests: t.requests, ServerErrors: t.errors}
	lat := t.latencies
	t.requests, t.errors = 0, 0
	t.latencies = make([]time.Duration, 0, cap(lat))
	t.mu.Unlock()

	w.Availability = 1
	if w.Requests > 0 {
		w.ErrorRate = float64(w.ServerErrors) / float64(w.Requests)
		w.Availability = 1 - w.ErrorRate
	}
	sort.Slice(lat, func(i, j int) bool { return lat[i] < lat[j] })
	w.P95 = percentile(lat, 0.95)
	w.P99 = percentile(lat, 0.99)

	UpdateAvailability(w.Availability)
	UpdateErrorRate(w.ErrorRate)
	UpdateLatencyP95(w.P95.Seconds())
	UpdateLatencyP99(w.P99.Seconds())
	return w
}

// percentile uses the nearest-rank method on sorted samples.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(p*float64(len(sorted))+0.999999) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}

// UpdateAvailability sets the availability gauge.
func UpdateAvailability(ratio float64) {
	SLOAvailability.Set(ratio)
}

// UpdateLatencyP95 sets the p95 gauge.
func UpdateLatencyP95(seconds float64) {
	SLOLatencyP95.Set(seconds)
}

// UpdateLatencyP99 sets the p99 gauge.
func UpdateLatencyP99(seconds float64) {
	SLOLatencyP99.Set(seconds)
}

// UpdateErrorRate sets the error rate gauge.
func UpdateErrorRate(ratio float64) {
	SLOErrorRate.Set(ratio)
}
