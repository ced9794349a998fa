package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the worker's configuration and job state.
//
//   - worker_config_load_timestamp
//   - worker_config_fallbacks_total{env_key}
//   - worker_config_fallback_active
//   - worker_collect_job_runs_total{collector,status}
//   - worker_collect_job_duration_seconds{collector}
//   - worker_collect_job_items_total{collector,outcome}
//   - worker_collect_job_last_success_timestamp{collector}
type Metrics struct {
	ConfigLoadTimestamp  prometheus.Gauge
	ConfigFallbacks      *prometheus.CounterVec
	ConfigFallbackActive prometheus.Gauge

	JobRuns        *prometheus.CounterVec
	JobDuration    *prometheus.HistogramVec
	JobItems       *prometheus.CounterVec
	JobLastSuccess *prometheus.GaugeVec
}

// NewMetrics registers the worker metrics with reg. A nil reg means the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ConfigLoadTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_config_load_timestamp",
			Help: "Unix timestamp of the last worker configuration load",
		}),
		ConfigFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_config_fallbacks_total",
			Help: "Invalid worker settings replaced by their defaults",
		}, []string{"env_key"}),
		ConfigFallbackActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_config_fallback_active",
			Help: "1 if any worker setting fell back to its default",
		}),
		JobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_collect_job_runs_total",
			Help: "Scheduled collector runs by status",
		}, []string{"collector", "status"}),
		JobDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_collect_job_duration_seconds",
			Help:    "Duration of scheduled collector runs",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}, []string{"collector"}),
		JobItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_collect_job_items_total",
			Help: "Items handled by scheduled runs by outcome",
		}, []string{"collector", "outcome"}),
		JobLastSuccess: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_collect_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful scheduled run",
		}, []string{"collector"}),
	}
}

func (m *Metrics) RecordLoadTimestamp() { m.ConfigLoadTimestamp.SetToCurrentTime() }

func (m *Metrics) RecordFallback(envKey string) { m.ConfigFallbacks.WithLabelValues(envKey).Inc() }

func (m *Metrics) SetFallbackActive(active bool) {
	if active {
		m.ConfigFallbackActive.Set(1)
		return
	}
	m.ConfigFallbackActive.Set(0)
}

// RecordRun records one finished run. created, duplicated and failed are
// the item counts of its result.
func (m *Metrics) RecordRun(collector string, success bool, seconds float64, created, duplicated, failed int) {
	status := "failure"
	if success {
		status = "success"
		m.JobLastSuccess.WithLabelValues(collector).SetToCurrentTime()
	}
	m.JobRuns.WithLabelValues(collector, status).Inc()
	m.JobDuration.WithLabelValues(collector).Observe(seconds)
	m.JobItems.WithLabelValues(collector, "created").Add(float64(created))
	m.JobItems.WithLabelValues(collector, "duplicated").Add(float64(duplicated))
	m.JobItems.WithLabelValues(collector, "failed").Add(float64(failed))
}
