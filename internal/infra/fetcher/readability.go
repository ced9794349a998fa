package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-shiori/go-readability"

	"geodata/internal/resilience/circuitbreaker"
	"geodata/internal/resilience/retry"
	"geodata/internal/usecase/collect"
	"geodata/internal/utils/text"
)

// ReadabilityFetcher implements collect.PageFetcher with the Mozilla
// Readability algorithm. Requests go through a circuit breaker and retry
// with backoff. Safe for concurrent use.
type ReadabilityFetcher struct {
	client         *Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// Option customizes a fetcher.
type Option func(*ReadabilityFetcher)

// WithRetryConfig replaces the default retry schedule.
func WithRetryConfig(cfg retry.Config) Option {
	return func(f *ReadabilityFetcher) { f.retryConfig = cfg }
}

// WithCircuitBreaker replaces the default breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(f *ReadabilityFetcher) { f.circuitBreaker = cb }
}

func NewReadabilityFetcher(client *Client, opts ...Option) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.WebPageConfig()),
		retryConfig:    retry.WebPageConfig(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage downloads urlStr and extracts its article text.
func (f *ReadabilityFetcher) FetchPage(ctx context.Context, urlStr string) (*collect.Page, error) {
	return retry.Do(ctx, f.retryConfig, func() (*collect.Page, error) {
		return circuitbreaker.Do(f.circuitBreaker, func() (*collect.Page, error) {
			return f.doFetch(ctx, urlStr)
		})
	})
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (*collect.Page, error) {
	resp, err := f.client.Get(ctx, urlStr, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}

	article, err := readability.FromReader(bytes.NewReader(resp.Body), resp.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", collect.ErrExtractionFailed, err)
	}

	content := text.CollapseSpace(article.TextContent)
	if content == "" {
		return nil, fmt.Errorf("%w: no readable content found", collect.ErrExtractionFailed)
	}
	slog.Debug("page extracted",
		slog.String("url", urlStr),
		slog.Int("content_length", text.CountRunes(content)))

	return &collect.Page{
		Title:       strings.TrimSpace(article.Title),
		Content:     content,
		URL:         resp.URL.String(),
		PublishedAt: article.PublishedTime,
	}, nil
}
