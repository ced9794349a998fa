// Package commands implements geoctl, the operator CLI of the geodata
// platform: schema migrations, one-off collector runs and lineage reports.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"geodata/internal/app"
	"geodata/internal/observability/logging"
	"geodata/internal/usecase/collect"
)

const version = "0.1.0"

// options are shared by every subcommand.
type options struct {
	store   string
	dsn     string
	verbose bool

	// openStore and feedFetcher are replaced in tests.
	openStore   func(ctx context.Context, logger *slog.Logger, opts app.StoreOptions) (*app.Store, error)
	feedFetcher func() (collect.FeedFetcher, error)
}

// NewRootCmd builds the geoctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{openStore: app.OpenStore, feedFetcher: defaultFeedFetcher})
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:     "geoctl",
		Short:   "Geodata platform operator CLI",
		Version: version,
		Long: `Operate a geodata deployment from the command line: apply database
migrations, run collectors once, check source feeds and inspect data lineage
coverage and quality.

The store is chosen like the API server does it, from STORE_DRIVER and
DATABASE_URL, unless --store or --dsn is given.`,
		Example: `  # Apply pending migrations
  $ geoctl migrate up

  # Collect factbook country profiles now
  $ geoctl collect cia_factbook

  # Lineage coverage as JSON
  $ geoctl lineage stats --json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(fmt.Sprintf("geoctl version %s\n", version))

	root.PersistentFlags().StringVar(&opts.store, "store", "", "store driver: postgres or memory (default from STORE_DRIVER)")
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "PostgreSQL connection string (default from DATABASE_URL)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newCollectCmd(opts))
	root.AddCommand(newLineageCmd(opts))
	root.AddCommand(newFeedsCmd(opts))
	return root
}

// Execute runs geoctl with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return logging.New(logging.Options{Level: level, Format: "text", Writer: w})
}

// storeOptions never migrates; schema changes go through "migrate up".
func (o *options) storeOptions() app.StoreOptions {
	so := app.StoreOptionsFromEnv()
	if o.store != "" {
		so.Driver = o.store
	}
	if o.dsn != "" {
		so.DSN = o.dsn
	}
	so.Migrate = false
	return so
}

// withStore opens the store for one command and closes it afterwards.
func (o *options) withStore(cmd *cobra.Command, fn func(ctx context.Context, st *app.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := o.logger(cmd.ErrOrStderr())
	slog.SetDefault(logger)

	st, err := o.openStore(ctx, logger, o.storeOptions())
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()
	return fn(ctx, st)
}
