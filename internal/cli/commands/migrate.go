package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"geodata/internal/app"
	"geodata/internal/infra/db"
)

func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply or revert the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "create missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withPostgres(cmd, func(st *app.Store) error {
				if err := db.MigrateUp(st.DB); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	})

	var confirm bool
	down := &cobra.Command{
		Use:   "down",
		Short: "drop every geodata table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("migrate down drops all data, pass --yes to confirm")
			}
			return opts.withPostgres(cmd, func(st *app.Store) error {
				if err := db.MigrateDown(st.DB); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "all tables dropped")
				return nil
			})
		},
	}
	down.Flags().BoolVar(&confirm, "yes", false, "confirm dropping all tables")
	cmd.AddCommand(down)
	return cmd
}

func (o *options) withPostgres(cmd *cobra.Command, fn func(st *app.Store) error) error {
	return o.withStore(cmd, func(_ context.Context, st *app.Store) error {
		if st.DB == nil {
			return fmt.Errorf("migrations need the postgres store, got %q", st.Driver)
		}
		return fn(st)
	})
}
