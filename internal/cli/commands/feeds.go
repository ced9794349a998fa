package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"geodata/internal/app"
	"geodata/internal/domain/entity"
	"geodata/internal/handler/http/respond"
	"geodata/internal/infra/fetcher"
	"geodata/internal/infra/scraper"
	"geodata/internal/repository"
	"geodata/internal/resilience/retry"
	"geodata/internal/usecase/collect"
)

// Feed check outcomes.
const (
	feedOK      = "OK"
	feedEmpty   = "EMPTY"
	feedTimeout = "TIMEOUT"
	feedError   = "ERROR"
)

type feedDiagnostic struct {
	SourceID     string     `json:"source_id"`
	FeedURL      string     `json:"feed_url"`
	Status       string     `json:"status"`
	ItemCount    int        `json:"item_count"`
	LatestItem   *time.Time `json:"latest_item,omitempty"`
	ResponseTime int64      `json:"response_time_ms"`
	Error        string     `json:"error,omitempty"`
}

func newFeedsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "inspect the RSS/Atom feeds of the stored sources",
	}

	var (
		sourceID    string
		timeout     time.Duration
		parallelism int
		asJSON      bool
	)
	check := &cobra.Command{
		Use:   "check",
		Short: "fetch every source feed once and report its health",
		Long: `Fetch the feed of every source that has a feed URL, without retries,
and report whether it answers, how many items it carries and how recent
the newest one is. Nothing is stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, st *app.Store) error {
				sources, err := feedSources(ctx, st.Sources, sourceID)
				if err != nil {
					return err
				}
				f, err := opts.feedFetcher()
				if err != nil {
					return err
				}
				results := checkFeeds(ctx, f, sources, timeout, parallelism)

				w := cmd.OutOrStdout()
				if asJSON {
					return printJSON(w, results)
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SOURCE\tSTATUS\tITEMS\tLATEST\tTIME\tERROR")
				for _, d := range results {
					latest := "-"
					if d.LatestItem != nil {
						latest = d.LatestItem.Format(time.DateOnly)
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%dms\t%s\n",
						d.SourceID, d.Status, d.ItemCount, latest, d.ResponseTime, d.Error)
				}
				return tw.Flush()
			})
		},
	}
	check.Flags().StringVar(&sourceID, "source", "", "check only this source")
	check.Flags().DurationVar(&timeout, "timeout", 20*time.Second, "limit per feed")
	check.Flags().IntVarP(&parallelism, "parallel", "p", 4, "feeds fetched concurrently")
	check.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.AddCommand(check)
	return cmd
}

// defaultFeedFetcher fetches once per call; retries would hide flaky feeds.
func defaultFeedFetcher() (collect.FeedFetcher, error) {
	cfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return scraper.NewRSSFetcher(fetcher.NewClient(cfg)).WithRetryConfig(retry.Config{MaxAttempts: 1}), nil
}

func feedSources(ctx context.Context, repo repository.SourceRepository, id string) ([]*entity.Source, error) {
	if id != "" {
		src, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if src == nil {
			return nil, fmt.Errorf("source %q not found", id)
		}
		if src.FeedURL == "" {
			return nil, fmt.Errorf("source %q has no feed URL", id)
		}
		return []*entity.Source{src}, nil
	}

	all, err := repo.List(ctx, repository.SourceFilter{})
	if err != nil {
		return nil, err
	}
	var out []*entity.Source
	for _, s := range all {
		if s.FeedURL != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// checkFeeds keeps the order of sources in its result.
func checkFeeds(ctx context.Context, f collect.FeedFetcher, sources []*entity.Source, timeout time.Duration, parallelism int) []feedDiagnostic {
	results := make([]feedDiagnostic, len(sources))
	var g errgroup.Group
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, src := range sources {
		g.Go(func() error {
			results[i] = diagnoseFeed(ctx, f, src, timeout)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func diagnoseFeed(ctx context.Context, f collect.FeedFetcher, src *entity.Source, timeout time.Duration) feedDiagnostic {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d := feedDiagnostic{SourceID: src.ID, FeedURL: src.FeedURL}
	start := time.Now()
	items, err := f.Fetch(ctx, src.FeedURL)
	d.ResponseTime = time.Since(start).Milliseconds()

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, collect.ErrTimeout):
		d.Status = feedTimeout
	case err != nil:
		d.Status = feedError
		d.Error = respond.SanitizeError(err)
	case len(items) == 0:
		d.Status = feedEmpty
	default:
		d.Status = feedOK
	}

	d.ItemCount = len(items)
	for _, it := range items {
		if it.PublishedAt != nil && (d.LatestItem == nil || it.PublishedAt.After(*d.LatestItem)) {
			t := *it.PublishedAt
			d.LatestItem = &t
		}
	}
	return d
}
