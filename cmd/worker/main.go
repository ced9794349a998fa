package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"geodata/internal/app"
	"geodata/internal/infra/notifier"
	workerPkg "geodata/internal/infra/worker"
	"geodata/internal/observability/logging"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := workerPkg.NewMetrics(nil)
	cfg := workerPkg.LoadConfigFromEnv(logger, metrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Any("collectors", cfg.Collectors),
		slog.Duration("run_timeout", cfg.RunTimeout),
		slog.Int("health_port", cfg.HealthPort))

	store, err := app.OpenStore(ctx, logger, app.StoreOptionsFromEnv())
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	if store.DB != nil {
		prometheus.MustRegister(collectors.NewDBStatsCollector(store.DB, "geodata"))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	collectorCfg, err := app.LoadCollectorConfig()
	if err != nil {
		logger.Error("invalid collector configuration", slog.Any("error", err))
		os.Exit(1)
	}
	registry, err := app.NewRegistry(store, collectorCfg)
	if err != nil {
		logger.Error("failed to build collectors", slog.Any("error", err))
		os.Exit(1)
	}

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	scheduler, err := workerPkg.NewScheduler(registry, cfg, metrics, logger)
	if err != nil {
		logger.Error("failed to schedule collection", slog.Any("error", err))
		os.Exit(1)
	}
	notifyCfg, err := notifier.LoadConfigFromEnv()
	if err != nil {
		logger.Error("invalid notification configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if notifyCfg.Enabled() {
		scheduler.WithNotifier(notifier.New(notifyCfg))
		logger.Info("run notifications enabled", slog.Bool("failures_only", notifyCfg.FailuresOnly))
	}
	scheduler.Start()
	healthServer.SetReady(true)
	logger.Info("worker started", slog.Time("next_run", scheduler.Next()))

	<-ctx.Done()
	logger.Info("shutting down worker")
	healthServer.SetReady(false)
	<-scheduler.Stop().Done()
	logger.Info("worker stopped")
}
