package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"geodata/internal/app"
	"geodata/internal/common/pagination"
	hhttp "geodata/internal/handler/http"
	hcollector "geodata/internal/handler/http/collector"
	hdata "geodata/internal/handler/http/data"
	hlineage "geodata/internal/handler/http/lineage"
	"geodata/internal/handler/http/middleware"
	"geodata/internal/handler/http/requestid"
	hsrc "geodata/internal/handler/http/source"
	htag "geodata/internal/handler/http/tag"
	"geodata/internal/observability/logging"
	"geodata/internal/observability/slo"
	"geodata/internal/observability/tracing"
	"geodata/internal/resilience/circuitbreaker"
	"geodata/internal/usecase/collect"
	"geodata/pkg/config"

	_ "geodata/docs" // swagger docs
)

// @title           Geodata API
// @version         1.0
// @description     地政学データプラットフォームの REST API
// @description     データソース、収集データ、国プロファイル、タグ、データ系譜(lineage)の管理と品質レポートを提供します。

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	logger := initLogger()
	version := getVersion()

	shutdownTracer := tracing.InitTracer("geodata-api", version, config.GetEnvFloat("TRACE_SAMPLE_RATIO", 1))
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to stop tracer", slog.Any("error", err))
		}
	}()

	store := initStore(logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	components := setupServer(logger, store, version)
	runServer(logger, components, version)
}

func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

func initStore(logger *slog.Logger) *app.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := app.OpenStore(ctx, logger, app.StoreOptionsFromEnv())
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	if store.DB != nil {
		prometheus.MustRegister(collectors.NewDBStatsCollector(store.DB, "geodata"))
	}
	logger.Info("store ready", slog.String("driver", store.Driver))
	return store
}

func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler       http.Handler
	RateLimiter   *middleware.RateLimiter
	SearchLimiter *middleware.RateLimiter
	RateLimitCfg  *config.RateLimitConfig
	SLOTracker    *slo.Tracker
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, store *app.Store, version string) *ServerComponents {
	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		logger.Error("failed to load rate limit configuration", slog.Any("error", err))
		os.Exit(1)
	}
	ipExtractor, err := middleware.NewIPExtractor(rlCfg)
	if err != nil {
		logger.Error("failed to create IP extractor", slog.Any("error", err))
		os.Exit(1)
	}

	var limiter *middleware.RateLimiter
	if rlCfg.Enabled {
		limiter = middleware.NewRateLimiter(rlCfg.RPS, rlCfg.Burst, ipExtractor)
		logger.Info("rate limiting enabled",
			slog.Float64("rps", rlCfg.RPS),
			slog.Int("burst", rlCfg.Burst),
			slog.Bool("trust_proxy", rlCfg.TrustProxy))
	} else {
		logger.Warn("rate limiting is disabled")
	}

	// 検索は全件走査になるため別枠で絞る
	searchLimiter := middleware.NewRateLimiter(
		config.GetEnvFloat("SEARCH_RATE_LIMIT_RPS", 2),
		config.GetEnvInt("SEARCH_RATE_LIMIT_BURST", 10),
		ipExtractor)

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

	tracker := slo.NewTracker()
	mux := setupRoutes(store, app.NewServices(store), registry, searchLimiter, version, logger)

	return &ServerComponents{
		Handler:       applyMiddleware(logger, mux, limiter, tracker),
		RateLimiter:   limiter,
		SearchLimiter: searchLimiter,
		RateLimitCfg:  rlCfg,
		SLOTracker:    tracker,
	}
}

func setupRoutes(
	store *app.Store,
	svc *app.Services,
	registry *collect.Registry,
	searchLimiter *middleware.RateLimiter,
	version string,
	logger *slog.Logger,
) *http.ServeMux {
	paginationCfg := pagination.LoadFromEnv()

	// ヘルスチェックは DB をサーキットブレーカー越しに叩く
	var pinger hhttp.DBPinger
	if store.DB != nil {
		pinger = circuitbreaker.NewDBCircuitBreaker(store.DB)
	}
	inMemory := store.Driver == app.DriverMemory

	platformMux := http.NewServeMux()
	platformMux.Handle("GET /api/{$}", &hhttp.RootHandler{Version: version})
	platformMux.Handle("GET /api/health", &hhttp.HealthHandler{DB: pinger, InMemory: inMemory, Version: version})
	platformMux.Handle("GET /ready", &hhttp.ReadyHandler{DB: pinger, InMemory: inMemory})
	platformMux.Handle("GET /live", &hhttp.LiveHandler{})
	platformMux.Handle("GET /metrics", hhttp.MetricsHandler())
	platformMux.Handle("/swagger/", httpSwagger.WrapHandler)

	apiMux := http.NewServeMux()
	hsrc.Register(apiMux, svc.Sources)
	hdata.Register(apiMux, hdata.Services{
		Entries:   svc.Entries,
		Countries: svc.Countries,
		Search:    svc.Search,
	}, paginationCfg, logger, searchLimiter.Middleware)
	htag.Register(apiMux, svc.Tags, paginationCfg, logger)
	hlineage.Register(apiMux, svc.Lineage, paginationCfg, logger)

	collectorMux := http.NewServeMux()
	hcollector.Register(collectorMux, registry)

	requestTimeout := config.GetEnvDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second)
	collectTimeout := config.GetEnvDuration("HTTP_COLLECT_TIMEOUT", 15*time.Minute)

	rootMux := http.NewServeMux()
	rootMux.Handle("/api/{$}", platformMux)
	rootMux.Handle("/api/health", platformMux)
	rootMux.Handle("/ready", platformMux)
	rootMux.Handle("/live", platformMux)
	rootMux.Handle("/metrics", platformMux)
	rootMux.Handle("/swagger/", platformMux)
	rootMux.Handle("/api/collectors", hhttp.Timeout(collectTimeout)(collectorMux))
	rootMux.Handle("/api/collectors/", hhttp.Timeout(collectTimeout)(collectorMux))
	rootMux.Handle("/", hhttp.Timeout(requestTimeout)(apiMux))
	return rootMux
}

// applyMiddleware wraps the handler with middleware chain.
// Middleware order: Request ID → Tracing → Logging → Recovery → Metrics → CORS → Rate Limit → Input Validation
func applyMiddleware(logger *slog.Logger, handler http.Handler, limiter *middleware.RateLimiter, tracker *slo.Tracker) http.Handler {
	corsConfig := middleware.LoadCORSConfig()
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Bool("allow_credentials", corsConfig.AllowCredentials),
		slog.Int("max_age", corsConfig.MaxAge))

	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.InputValidation()(chain)
	if limiter != nil {
		chain = limiter.Middleware(chain)
	}
	chain = middleware.CORS(corsConfig)(chain)
	chain = hhttp.Metrics(tracker)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	// Create a context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if components.RateLimiter != nil {
		go hhttp.StartRateLimitCleanup(ctx, components.RateLimiter,
			components.RateLimitCfg.CleanupInterval, components.RateLimitCfg.IdleTTL)
	}
	go hhttp.StartRateLimitCleanup(ctx, components.SearchLimiter,
		components.RateLimitCfg.CleanupInterval, components.RateLimitCfg.IdleTTL)
	go hhttp.StartSLOFlush(ctx, components.SLOTracker,
		config.GetEnvDuration("SLO_FLUSH_INTERVAL", time.Minute))

	addr := fmt.Sprintf(":%d", config.GetEnvInt("PORT", 8080))
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Cancel background goroutines (rate limit cleanup, SLO flush)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
