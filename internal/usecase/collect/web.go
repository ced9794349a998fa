package collect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"geodata/internal/domain/entity"
	"geodata/internal/observability/metrics"
	"geodata/internal/repository"
)

// WebName is the registry name of the single page collector.
const WebName = "web"

// Page is the readable content extracted from one web page.
type Page struct {
	Title       string
	Content     string
	URL         string
	PublishedAt *time.Time
}

// PageFetcher downloads a page and extracts its main content.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*Page, error)
}

// WebCollector stores the readable content of one URL for a given source.
type WebCollector struct {
	Fetcher  PageFetcher
	Sources  repository.SourceRepository
	Ingester *Ingester
}

func (c *WebCollector) Name() string { return WebName }

func (c *WebCollector) Description() string {
	return "Extracts the main content of a single web page for a source"
}

// Collect requires req.SourceID and a public req.URL. Unlike the feed
// collectors a fetch failure fails the run, since there is only one item.
func (c *WebCollector) Collect(ctx context.Context, req Request) (*RunResult, error) {
	if strings.TrimSpace(req.SourceID) == "" {
		return nil, &entity.ValidationError{Field: "source_id", Message: "is required"}
	}
	if err := entity.ValidatePublicURL("url", req.URL); err != nil {
		return nil, err
	}
	src, err := c.Sources.Get(ctx, req.SourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return nil, &entity.ValidationError{Field: "source_id", Message: "not found"}
	}

	res := &RunResult{Collector: WebName}
	page, err := c.Fetcher.FetchPage(ctx, req.URL)
	if err != nil {
		metrics.RecordCollectorFetchError(WebName, errorType(err))
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	hash := entity.HashContent(page.Content)
	known, err := c.Ingester.Known(ctx, []string{hash})
	if err != nil {
		return nil, err
	}
	if known[hash] {
		metrics.RecordEntriesDuplicated(WebName, 1)
		res.duplicated()
		return res, nil
	}

	title := page.Title
	if title == "" {
		title = req.URL
	}
	pageURL := page.URL
	if pageURL == "" {
		pageURL = req.URL
	}
	if _, _, err := c.Ingester.Ingest(ctx, Item{
		SourceID:        src.ID,
		Title:           title,
		Content:         page.Content,
		ContentType:     entity.ContentTypeArticle,
		URL:             pageURL,
		PublishedDate:   page.PublishedAt,
		Hash:            hash,
		Method:          "scrape",
		Transformations: []string{"readability_extraction"},
		Status:          entity.LineagePending,
	}); err != nil {
		return nil, fmt.Errorf("store page: %w", err)
	}

	metrics.RecordEntriesCollected(WebName, src.ID, 1)
	res.created()
	return res, nil
}
