package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"geodata/internal/app"
	"geodata/internal/usecase/collect"
)

type runOutput struct {
	Collector  string    `json:"collector"`
	Success    bool      `json:"success"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Processed  int       `json:"processed"`
	Created    int       `json:"created"`
	Duplicated int       `json:"duplicated"`
	Failed     int       `json:"failed"`
	Errors     []string  `json:"errors,omitempty"`
	Error      string    `json:"error,omitempty"`
}

func newRunOutput(run *collect.Run) runOutput {
	out := runOutput{
		Collector:  run.Collector,
		Success:    run.Success,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Error:      run.Error,
	}
	if r := run.Result; r != nil {
		out.Processed, out.Created, out.Duplicated, out.Failed = r.Processed, r.Created, r.Duplicated, r.Failed
		out.Errors = r.Errors
	}
	return out
}

func newCollectCmd(opts *options) *cobra.Command {
	var (
		list     bool
		asJSON   bool
		sourceID string
		url      string
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "collect [collector]",
		Short: "run one collector now",
		Long: `Run a registered collector once and print its result.

Collectors:
  cia_factbook  country profiles of the priority regions
  rss           new items of every source with a feed URL
  web           the readable content of one page (needs --source and --url)`,
		Example: `  $ geoctl collect --list
  $ geoctl collect rss --source reuters
  $ geoctl collect web --source un --url https://www.un.org/en/about-us`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !list && len(args) == 0 {
				return fmt.Errorf("collector name required, see --list")
			}
			return opts.withStore(cmd, func(ctx context.Context, st *app.Store) error {
				cfg, err := app.LoadCollectorConfig()
				if err != nil {
					return err
				}
				reg, err := app.NewRegistry(st, cfg)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if list {
					tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "NAME\tDESCRIPTION")
					for _, info := range reg.List() {
						fmt.Fprintf(tw, "%s\t%s\n", info.Name, info.Description)
					}
					return tw.Flush()
				}

				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				run, runErr := reg.Run(ctx, args[0], collect.Request{SourceID: sourceID, URL: url})
				if run == nil {
					return runErr
				}
				res := newRunOutput(run)
				if asJSON {
					if err := printJSON(out, res); err != nil {
						return err
					}
					return runErr
				}
				if runErr != nil {
					printFailure(out, "%s failed after %s: %s", res.Collector, res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond), res.Error)
					return runErr
				}
				printSuccess(out, "%s finished in %s", res.Collector, res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond))
				fmt.Fprintf(out, "  processed %d, created %d, duplicated %d, failed %d\n",
					res.Processed, res.Created, res.Duplicated, res.Failed)
				for _, e := range res.Errors {
					fmt.Fprintf(out, "  - %s\n", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list registered collectors")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&sourceID, "source", "", "source ID to collect from")
	cmd.Flags().StringVar(&url, "url", "", "page URL for the web collector")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "limit for the run")
	return cmd
}
