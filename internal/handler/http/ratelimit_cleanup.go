package http

import (
	"context"
	"log/slog"
	"time"

	"geodata/internal/handler/http/middleware"
)

// StartRateLimitCleanup evicts clients idle for longer than maxIdle from
// limiter every interval until ctx is cancelled. It blocks; run it in a
// goroutine.
func StartRateLimitCleanup(ctx context.Context, limiter *middleware.RateLimiter, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started",
		slog.Duration("interval", interval),
		slog.Duration("max_idle", maxIdle))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return
		case <-ticker.C:
			removed := limiter.CleanupExpired(maxIdle)
			slog.Debug("rate limit cleanup completed",
				slog.Int("removed", removed),
				slog.Int("active_clients", limiter.ActiveClients()))
		}
	}
}
