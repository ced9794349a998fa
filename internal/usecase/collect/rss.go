package collect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"geodata/internal/domain/entity"
	"geodata/internal/observability/metrics"
	"geodata/internal/repository"
)

// RSSName is the registry name of the feed collector.
const RSSName = "rss"

var errEmptyItem = errors.New("feed item has no title or content")

// FeedItem is a single item from an RSS/Atom feed.
type FeedItem struct {
	Title       string
	URL         string
	Content     string
	PublishedAt *time.Time
}

// FeedFetcher fetches and parses an RSS/Atom feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// RSSCollector stores new feed items of every source that has a feed URL as
// article entries with a pending lineage record.
type RSSCollector struct {
	Fetcher     FeedFetcher
	Sources     repository.SourceRepository
	Ingester    *Ingester
	Parallelism int
}

func (c *RSSCollector) Name() string { return RSSName }

func (c *RSSCollector) Description() string {
	return "Collects articles from the RSS/Atom feeds of registered sources"
}

// Collect polls all feeds, or only req.SourceID's feed when set. A failing
// feed is counted and skipped.
func (c *RSSCollector) Collect(ctx context.Context, req Request) (*RunResult, error) {
	res := &RunResult{Collector: RSSName}

	sources, err := c.Sources.ListWithFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources with feed: %w", err)
	}
	if req.SourceID != "" {
		var only []*entity.Source
		for _, src := range sources {
			if src.ID == req.SourceID {
				only = append(only, src)
			}
		}
		if len(only) == 0 {
			return nil, &entity.ValidationError{Field: "source_id", Message: "must name a source with a feed_url"}
		}
		sources = only
	}

	parallelism := c.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)
	for _, src := range sources {
		eg.Go(func() error {
			return c.collectSource(egCtx, src, res)
		})
	}
	if err := eg.Wait(); err != nil {
		return res, err
	}

	slog.Info("feed collection completed",
		slog.Int("sources", len(sources)),
		slog.Int("created", res.Created),
		slog.Int("duplicated", res.Duplicated),
		slog.Int("failed", res.Failed))
	return res, nil
}

// collectSource returns an error only when ctx is done.
func (c *RSSCollector) collectSource(ctx context.Context, src *entity.Source, res *RunResult) error {
	items, err := c.Fetcher.Fetch(ctx, src.FeedURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.RecordCollectorFetchError(RSSName, errorType(err))
		slog.Warn("failed to fetch feed",
			slog.String("source_id", src.ID),
			slog.String("feed_url", src.FeedURL),
			slog.Any("error", err))
		res.failed(src.ID, err)
		return nil
	}
	if len(items) == 0 {
		return nil
	}

	// N+1回避: ハッシュをまとめて存在チェック
	hashes := make([]string, 0, len(items))
	for _, it := range items {
		hashes = append(hashes, entity.HashContent(it.Content))
	}
	known, err := c.Ingester.Known(ctx, hashes)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res.failed(src.ID, err)
		return nil
	}

	created, duplicated := 0, 0
	for i, it := range items {
		if it.Title == "" || it.Content == "" {
			res.failed(it.URL, errEmptyItem)
			continue
		}
		if known[hashes[i]] {
			duplicated++
			res.duplicated()
			continue
		}
		_, _, err := c.Ingester.Ingest(ctx, Item{
			SourceID:        src.ID,
			Title:           it.Title,
			Content:         it.Content,
			ContentType:     entity.ContentTypeArticle,
			URL:             it.URL,
			PublishedDate:   it.PublishedAt,
			Hash:            hashes[i],
			Method:          "rss",
			Transformations: []string{"feed_parsing", "html_stripping"},
			Status:          entity.LineagePending,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			res.failed(it.URL, err)
			continue
		}
		// 同一フィード内の重複も弾く
		known[hashes[i]] = true
		created++
		res.created()
	}

	metrics.RecordEntriesCollected(RSSName, src.ID, created)
	metrics.RecordEntriesDuplicated(RSSName, duplicated)
	return nil
}
