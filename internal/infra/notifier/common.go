package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"geodata/internal/handler/http/respond"
	"geodata/internal/usecase/collect"
)

// RateLimitError is a 429 answer from a webhook.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError is a 4xx answer other than 429. It is not retried.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string { return e.Message }

// ServerError is a 5xx answer.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string { return e.Message }

func isRetryable(err error) bool {
	var clientErr *ClientError
	return !errors.As(err, &clientErr)
}

const (
	maxAttempts      = 2
	defaultBaseDelay = 5 * time.Second
	truncationSuffix = "..."
)

// webhook posts JSON payloads with rate limiting and one retry.
type webhook struct {
	service   string
	url       string
	client    *http.Client
	limiter   *rate.Limiter
	baseDelay time.Duration
}

func newWebhook(service, url string, timeout time.Duration, rps float64, burst int) webhook {
	return webhook{
		service:   service,
		url:       url,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		baseDelay: defaultBaseDelay,
	}
}

func (w webhook) send(ctx context.Context, run *collect.Run, payload any) error {
	requestID := uuid.NewString()
	logger := slog.With(
		slog.String("request_id", requestID),
		slog.String("service", w.service),
		slog.String("collector", run.Collector))

	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = w.post(ctx, body)
		if lastErr == nil {
			logger.Info("run notification sent", slog.Int("attempt", attempt))
			return nil
		}

		delay := w.baseDelay * time.Duration(attempt)
		var rl *RateLimitError
		switch {
		case errors.As(lastErr, &rl):
			delay = rl.RetryAfter
		case !isRetryable(lastErr):
			logger.Error("run notification rejected",
				slog.String("error", respond.SanitizeError(lastErr)))
			return lastErr
		}
		if attempt == maxAttempts {
			break
		}

		logger.Warn("run notification failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", respond.SanitizeError(lastErr)))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("notification aborted: %w", ctx.Err())
		}
	}
	return fmt.Errorf("%s notification failed after %d attempts: %w", w.service, maxAttempts, lastErr)
}

func (w webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp, respBody)}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("%s client error %d: %s", w.service, resp.StatusCode, respBody)}
	default:
		return &ServerError{StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("%s server error %d: %s", w.service, resp.StatusCode, respBody)}
	}
}

// retryAfter reads the delay from a JSON retry_after field (Discord) or the
// Retry-After header, defaulting to 5s.
func retryAfter(resp *http.Response, body []byte) time.Duration {
	var payload struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.RetryAfter > 0 {
		return time.Duration(payload.RetryAfter * float64(time.Second))
	}
	if h := resp.Header.Get("Retry-After"); h != "" {
		if seconds, err := strconv.Atoi(h); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultBaseDelay
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit - len(truncationSuffix)
	if cut < 0 {
		cut = 0
	}
	return text[:cut] + truncationSuffix
}

// runSummary is the one-line text shared by every channel.
func runSummary(run *collect.Run) string {
	if !run.Success {
		return fmt.Sprintf("Collector %s failed", run.Collector)
	}
	return fmt.Sprintf("Collector %s completed", run.Collector)
}

// runDetail lists the counts and the sanitized error of a run.
func runDetail(run *collect.Run) string {
	var buf bytes.Buffer
	if r := run.Result; r != nil {
		fmt.Fprintf(&buf, "processed %d, created %d, duplicated %d, failed %d",
			r.Processed, r.Created, r.Duplicated, r.Failed)
	}
	if run.Error != "" {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("error: " + respond.SanitizeString(run.Error))
	}
	fmt.Fprintf(&buf, "\nduration %s", run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
	return buf.String()
}
