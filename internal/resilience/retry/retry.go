// Package retry re-runs transient failures with exponential backoff and
// jitter. Only errors classified by IsRetryable are retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config is a backoff schedule.
type Config struct {
	MaxAttempts  int           // total calls, including the first
	InitialDelay time.Duration // pause after the first failure
	MaxDelay     time.Duration // cap on a single pause, before jitter
	Multiplier   float64       // growth of the pause per attempt
	// JitterFraction adds up to this share of the pause at random (0..1).
	JitterFraction float64
}

func DefaultConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// FactbookConfig is for factbook country documents, which are static JSON
// behind a CDN.
func FactbookConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// FeedFetchConfig is for RSS/Atom feeds, which fail transiently more often.
func FeedFetchConfig() Config {
	return Config{MaxAttempts: 5, InitialDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// WebPageConfig is for single page extraction.
func WebPageConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 10 * time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// Delay returns the pause after the given failed attempt (1-based), before
// jitter is applied.
func (c Config) Delay(attempt int) time.Duration {
	d := float64(c.InitialDelay)
	for i := 1; i < attempt; i++ {
		d *= c.Multiplier
		if c.MaxDelay > 0 && d >= float64(c.MaxDelay) {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && time.Duration(d) > c.MaxDelay {
		return c.MaxDelay
	}
	return time.Duration(d)
}

// Do calls fn until it succeeds, returns a non-retryable error, attempts
// run out or ctx is done. The value of the successful call is returned.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	attempts := max(cfg.MaxAttempts, 1)

	for attempt := 1; ; attempt++ {
		v, err := fn()
		if err == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return v, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		if attempt >= attempts {
			return zero, fmt.Errorf("max retry attempts (%d) exceeded: %w", attempts, err)
		}

		delay := jitter(cfg.Delay(attempt), cfg.JitterFraction)
		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return zero, fmt.Errorf("retry aborted: %w", ctx.Err())
		}
	}
}

// WithBackoff is Do for functions without a result.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	_, err := Do(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// HTTPError is an unexpected upstream status.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether err is transient: network timeouts, refused
// or reset connections, 5xx, 408 and 429. Context errors never are.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch code := httpErr.StatusCode; {
		case code >= 500 && code < 600:
			return true
		case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// jitter adds a random share of up to fraction of d.
func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 || d <= 0 {
		return d
	}
	fraction = min(fraction, 1)
	// #nosec G404 -- backoff jitter needs no cryptographic randomness
	return d + time.Duration(rand.Float64()*fraction*float64(d))
}
