package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"geodata/internal/handler/http/respond"
	"geodata/internal/usecase/collect"
)

// Runner runs one named collector.
type Runner interface {
	Run(ctx context.Context, name string, req collect.Request) (*collect.Run, error)
}

// RunNotifier is told about every finished run.
type RunNotifier interface {
	NotifyRun(ctx context.Context, run *collect.Run) error
}

// Scheduler runs the configured collectors on a cron schedule. A tick that
// fires while the previous one is still running is skipped.
type Scheduler struct {
	runner  Runner
	cfg     *Config
	metrics *Metrics
	logger   *slog.Logger
	notifier RunNotifier
	cron     *cron.Cron
}

func NewScheduler(runner Runner, cfg *Config, metrics *Metrics, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	s := &Scheduler{runner: runner, cfg: cfg, metrics: metrics, logger: logger}
	cl := cronLogger{logger}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(cfg.CronSchedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("add cron job: %w", err)
	}
	return s, nil
}

// WithNotifier reports each finished run to n.
func (s *Scheduler) WithNotifier(n RunNotifier) *Scheduler {
	s.notifier = n
	return s
}

// Start begins the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("collection schedule started",
		slog.String("schedule", s.cfg.CronSchedule),
		slog.String("timezone", s.cfg.Timezone),
		slog.Any("collectors", s.cfg.Collectors))
}

// Stop halts the schedule. The returned context is done once a running
// job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Next returns the time of the next scheduled run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce runs every configured collector in order, each bounded by
// RunTimeout, and returns how many of them failed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	failed := 0
	for _, name := range s.cfg.Collectors {
		if !s.runCollector(ctx, name) {
			failed++
		}
	}
	return failed
}

func (s *Scheduler) runCollector(ctx context.Context, name string) bool {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	start := time.Now()
	s.logger.Info("scheduled collection started", slog.String("collector", name))
	run, err := s.runner.Run(runCtx, name, collect.Request{})
	elapsed := time.Since(start)
	s.notify(ctx, run)

	var created, duplicated, failed int
	if run != nil && run.Result != nil {
		created, duplicated, failed = run.Result.Created, run.Result.Duplicated, run.Result.Failed
	}
	if s.metrics != nil {
		s.metrics.RecordRun(name, err == nil, elapsed.Seconds(), created, duplicated, failed)
	}

	if err != nil {
		s.logger.Error("scheduled collection failed",
			slog.String("collector", name),
			slog.Duration("duration", elapsed),
			slog.String("error", respond.SanitizeError(err)))
		return false
	}
	s.logger.Info("scheduled collection completed",
		slog.String("collector", name),
		slog.Int("created", created),
		slog.Int("duplicated", duplicated),
		slog.Int("failed", failed),
		slog.Duration("duration", elapsed))
	return true
}

func (s *Scheduler) notify(ctx context.Context, run *collect.Run) {
	if s.notifier == nil || run == nil {
		return
	}
	if err := s.notifier.NotifyRun(ctx, run); err != nil {
		s.logger.Warn("run notification failed",
			slog.String("collector", run.Collector),
			slog.String("error", respond.SanitizeError(err)))
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append([]interface{}{slog.Any("error", err)}, keysAndValues...)...)
}
