package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"geodata/internal/resilience/retry"
	"geodata/internal/usecase/collect"
)

// Client is an HTTP client that validates every URL and redirect target
// and never reads more than MaxBodySize bytes.
type Client struct {
	http *http.Client
	cfg  Config
}

func NewClient(cfg Config) *Client {
	c := &Client{cfg: cfg}
	c.http = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", collect.ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), cfg.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return c
}

// HTTPClient exposes the underlying client for libraries that do their own
// requests, such as the feed parser.
func (c *Client) HTTPClient() *http.Client { return c.http }

// Config returns the limits the client was built with.
func (c *Client) Config() Config { return c.cfg }

// Response is a fully read response body.
type Response struct {
	Body []byte
	// URL is the final URL after redirects.
	URL         *url.URL
	ContentType string
}

// Get fetches urlStr. Non-2xx answers fail with a *retry.HTTPError wrapping
// collect.ErrUpstreamStatus so that 5xx and 429 are retried.
func (c *Client) Get(ctx context.Context, urlStr, accept string) (*Response, error) {
	if err := validateURL(urlStr, c.cfg.DenyPrivateIPs); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", collect.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: request exceeded %v", collect.ErrTimeout, c.cfg.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, fmt.Errorf("%w: %v", collect.ErrTimeout, err)
		}
		if errors.Is(err, collect.ErrTooManyRedirects) || errors.Is(err, collect.ErrInvalidURL) {
			return nil, fmt.Errorf("redirect rejected: %w", err)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &statusError{HTTPError: retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodySize+1))
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: reading body exceeded %v", collect.ErrTimeout, c.cfg.Timeout)
		}
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.cfg.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds limit %d bytes", collect.ErrBodyTooLarge, c.cfg.MaxBodySize)
	}

	return &Response{Body: body, URL: resp.Request.URL, ContentType: resp.Header.Get("Content-Type")}, nil
}

// statusError is a retry.HTTPError that also matches collect.ErrUpstreamStatus.
type statusError struct {
	retry.HTTPError
}

func (e *statusError) Unwrap() []error {
	return []error{&e.HTTPError, collect.ErrUpstreamStatus}
}
