package factbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"geodata/internal/infra/fetcher"
	"geodata/internal/resilience/circuitbreaker"
	"geodata/internal/resilience/retry"
	"geodata/internal/usecase/collect"
	pkgconfig "geodata/pkg/config"
)

// DefaultBaseURL is the raw-file root of the factbook.json repository.
const DefaultBaseURL = "https://raw.githubusercontent.com/factbook/factbook.json/master"

const (
	defaultRPS   = 5.0
	defaultBurst = 1
)

// Client implements collect.FactbookClient over HTTP. Requests are paced
// by a token bucket shared by all callers.
type Client struct {
	fetch          *fetcher.Client
	baseURL        string
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithRateLimit sets the request rate. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetryConfig replaces the retry schedule.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) { c.retryConfig = cfg }
}

// WithCircuitBreaker replaces the circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) { c.circuitBreaker = cb }
}

func NewClient(fetch *fetcher.Client, opts ...Option) *Client {
	c := &Client{
		fetch:          fetch,
		baseURL:        DefaultBaseURL,
		limiter:        rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		circuitBreaker: circuitbreaker.New(circuitbreaker.FactbookAPIConfig()),
		retryConfig:    retry.FactbookConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OptionsFromEnv reads FACTBOOK_BASE_URL, COLLECTOR_RPS and COLLECTOR_BURST.
func OptionsFromEnv() []Option {
	return []Option{
		WithBaseURL(pkgconfig.GetEnvString("FACTBOOK_BASE_URL", DefaultBaseURL)),
		WithRateLimit(
			pkgconfig.GetEnvFloat("COLLECTOR_RPS", defaultRPS),
			pkgconfig.GetEnvInt("COLLECTOR_BURST", defaultBurst),
		),
	}
}

// FetchCountry downloads {base}/{region}/{code}.json and extracts its profile.
func (c *Client) FetchCountry(ctx context.Context, region, code string) (*collect.CountryDocument, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	countryURL := fmt.Sprintf("%s/%s/%s.json", c.baseURL, region, code)
	body, err := retry.Do(ctx, c.retryConfig, func() ([]byte, error) {
		return circuitbreaker.Do(c.circuitBreaker, func() ([]byte, error) {
			resp, err := c.fetch.Get(ctx, countryURL, "application/json")
			if err != nil {
				return nil, err
			}
			return resp.Body, nil
		})
	})
	if errors.Is(err, gobreaker.ErrOpenState) {
		slog.Warn("factbook circuit breaker open, request rejected",
			slog.String("service", c.circuitBreaker.Name()),
			slog.String("code", code))
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", region, code, err)
	}

	profile, err := ParseCountry(code, body)
	if err != nil {
		return nil, err
	}
	return &collect.CountryDocument{Raw: body, Profile: profile}, nil
}
