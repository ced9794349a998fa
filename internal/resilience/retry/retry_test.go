package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

var errUpstream = &HTTPError{StatusCode: http.StatusBadGateway, Message: "bad gateway"}

/* ───────── Do / WithBackoff ───────── */

func TestDo_FirstAttemptSucceeds(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), fastConfig(3), func() (string, error) {
		calls++
		return "fr", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fr", v)
	assert.Equal(t, 1, calls)
}

func TestDo_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), fastConfig(3), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errUpstream
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
}

func TestDo_AttemptsExhausted(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(4), func() (int, error) {
		calls++
		return 0, errUpstream
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errUpstream)
	assert.Contains(t, err.Error(), "max retry attempts (4) exceeded")
	assert.Equal(t, 4, calls)
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	notFound := &HTTPError{StatusCode: http.StatusNotFound, Message: "no such country"}
	calls := 0
	_, err := Do(context.Background(), fastConfig(5), func() (int, error) {
		calls++
		return 0, notFound
	})
	assert.Same(t, notFound, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

	calls := 0
	_, err := Do(ctx, cfg, func() (int, error) {
		calls++
		cancel()
		return 0, errUpstream
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithBackoff_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := WithBackoff(context.Background(), Config{}, func() error {
		calls++
		return errUpstream
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

/* ───────── Delay / jitter ───────── */

func TestConfig_Delay(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	assert.Equal(t, 100*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 200*time.Millisecond, cfg.Delay(2))
	assert.Equal(t, 800*time.Millisecond, cfg.Delay(4))
	assert.Equal(t, time.Second, cfg.Delay(5))
	assert.Equal(t, time.Second, cfg.Delay(50))
}

func TestJitter(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 100; i++ {
		got := jitter(base, 0.5)
		assert.GreaterOrEqual(t, got, base)
		assert.LessOrEqual(t, got, base+base/2)
	}
	assert.Equal(t, base, jitter(base, 0))
	assert.LessOrEqual(t, jitter(base, 3), 2*base)
}

/* ───────── IsRetryable ───────── */

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: fmt.Errorf("fetch: %w", context.DeadlineExceeded), want: false},
		{name: "net timeout", err: &net.OpError{Op: "read", Err: timeoutErr{}}, want: true},
		{name: "connection refused", err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED), want: true},
		{name: "connection reset", err: syscall.ECONNRESET, want: true},
		{name: "500", err: &HTTPError{StatusCode: 500}, want: true},
		{name: "503 wrapped", err: fmt.Errorf("factbook: %w", &HTTPError{StatusCode: 503}), want: true},
		{name: "429", err: &HTTPError{StatusCode: 429}, want: true},
		{name: "408", err: &HTTPError{StatusCode: 408}, want: true},
		{name: "404", err: &HTTPError{StatusCode: 404}, want: false},
		{name: "400", err: &HTTPError{StatusCode: 400}, want: false},
		{name: "plain error", err: errors.New("parse feed"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestHTTPError_Error(t *testing.T) {
	assert.Equal(t, "HTTP 502: bad gateway", errUpstream.Error())
}

/* ───────── プリセット ───────── */

func TestPresets(t *testing.T) {
	for name, cfg := range map[string]Config{
		"default":  DefaultConfig(),
		"factbook": FactbookConfig(),
		"feed":     FeedFetchConfig(),
		"web":      WebPageConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			assert.GreaterOrEqual(t, cfg.MaxAttempts, 3)
			assert.Positive(t, cfg.InitialDelay)
			assert.GreaterOrEqual(t, cfg.MaxDelay, cfg.InitialDelay)
			assert.Greater(t, cfg.Multiplier, 1.0)
		})
	}
	assert.Equal(t, 5, FeedFetchConfig().MaxAttempts)
	assert.Less(t, FactbookConfig().MaxDelay, FeedFetchConfig().MaxDelay)
}
