package worker

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"geodata/internal/usecase/collect"
	"geodata/pkg/config"
)

// Config controls the scheduled collection worker.
//
// Environment variables:
//   - COLLECT_CRON_SCHEDULE: five-field cron expression (default "0 3 * * *")
//   - COLLECT_TIMEZONE: IANA timezone of the schedule (default "UTC")
//   - COLLECT_COLLECTORS: comma-separated collector names (default "cia_factbook,rss")
//   - COLLECT_TIMEOUT: limit for one collector run, 1m-4h (default 30m)
//   - WORKER_HEALTH_PORT: port of the health and metrics server, 1024-65535 (default 9091)
type Config struct {
	CronSchedule string
	Timezone     string
	Collectors   []string
	RunTimeout   time.Duration
	HealthPort   int
}

func DefaultConfig() Config {
	return Config{
		CronSchedule: "0 3 * * *",
		Timezone:     "UTC",
		Collectors:   []string{collect.FactbookName, collect.RSSName},
		RunTimeout:   30 * time.Minute,
		HealthPort:   9091,
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if len(c.Collectors) == 0 {
		errs = append(errs, fmt.Errorf("collectors: at least one collector is required"))
	}
	if err := validateRunTimeout(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := validatePort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

func validateRunTimeout(d time.Duration) error {
	return config.ValidateDurationRange(d, time.Minute, 4*time.Hour)
}

func validatePort(p int) error {
	return config.ValidateIntRange(p, 1024, 65535)
}

// LoadConfigFromEnv never fails: invalid values fall back to their
// defaults, are logged and are counted in metrics.
func LoadConfigFromEnv(logger *slog.Logger, metrics *Metrics) *Config {
	def := DefaultConfig()
	var l config.Loader

	cfg := Config{
		CronSchedule: l.String("COLLECT_CRON_SCHEDULE", def.CronSchedule, config.ValidateCronSchedule),
		Timezone:     l.String("COLLECT_TIMEZONE", def.Timezone, config.ValidateTimezone),
		Collectors:   splitNames(l.String("COLLECT_COLLECTORS", strings.Join(def.Collectors, ","), nil)),
		RunTimeout:   l.Duration("COLLECT_TIMEOUT", def.RunTimeout, validateRunTimeout),
		HealthPort:   l.Int("WORKER_HEALTH_PORT", def.HealthPort, validatePort),
	}
	if len(cfg.Collectors) == 0 {
		cfg.Collectors = def.Collectors
	}

	for _, fb := range l.Fallbacks {
		logger.Warn("configuration fallback applied",
			slog.String("env_key", fb.Key),
			slog.String("invalid_value", fb.Value),
			slog.String("default_value", fb.Default),
			slog.String("error", fb.Err.Error()))
		if metrics != nil {
			metrics.RecordFallback(fb.Key)
		}
	}
	if metrics != nil {
		metrics.SetFallbackActive(l.Applied())
		metrics.RecordLoadTimestamp()
	}
	return &cfg
}

func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}
