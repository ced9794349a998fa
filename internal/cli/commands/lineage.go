package commands

import (
	"context"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"geodata/internal/app"
	lineageUC "geodata/internal/usecase/lineage"
)

type statsOutput struct {
	TotalLineageRecords   int64   `json:"total_lineage_records"`
	ValidatedRecords      int64   `json:"validated_records"`
	PendingRecords        int64   `json:"pending_records"`
	FailedRecords         int64   `json:"failed_records"`
	TotalDataEntries      int64   `json:"total_data_entries"`
	EntriesWithLineage    int64   `json:"entries_with_lineage"`
	EntriesWithoutLineage int64   `json:"entries_without_lineage"`
	CoveragePercentage    float64 `json:"lineage_coverage_percentage"`
}

type reportOutput struct {
	TotalRecords       int                 `json:"total_records"`
	StatusDistribution map[string]int      `json:"validation_status_distribution"`
	AverageMetrics     map[string]*float64 `json:"average_quality_metrics"`
	MetricCoverage     map[string]string   `json:"quality_metric_coverage"`
}

func newLineageCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lineage",
		Short: "inspect data lineage",
	}
	cmd.AddCommand(newLineageStatsCmd(opts), newLineageReportCmd(opts))
	return cmd
}

func newLineageStatsCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "lineage coverage of the stored data entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, st *app.Store) error {
				s, err := app.NewServices(st).Lineage.Stats(ctx)
				if err != nil {
					return err
				}
				out := statsOutput(*s)
				w := cmd.OutOrStdout()
				if asJSON {
					return printJSON(w, out)
				}
				printHeader(w, "LINEAGE COVERAGE")
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "records\t%d\n", out.TotalLineageRecords)
				fmt.Fprintf(tw, "  validated\t%d\n", out.ValidatedRecords)
				fmt.Fprintf(tw, "  pending\t%d\n", out.PendingRecords)
				fmt.Fprintf(tw, "  failed\t%d\n", out.FailedRecords)
				fmt.Fprintf(tw, "data entries\t%d\n", out.TotalDataEntries)
				fmt.Fprintf(tw, "  with lineage\t%d\n", out.EntriesWithLineage)
				fmt.Fprintf(tw, "  without lineage\t%d\n", out.EntriesWithoutLineage)
				fmt.Fprintf(tw, "coverage\t%.2f%%\n", out.CoveragePercentage)
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newLineageReportCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "average quality metrics over all lineage records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, st *app.Store) error {
				r, err := app.NewServices(st).Lineage.QualityReport(ctx)
				if err != nil {
					return err
				}
				return writeReport(cmd, r, asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func writeReport(cmd *cobra.Command, r *lineageUC.QualityReport, asJSON bool) error {
	w := cmd.OutOrStdout()
	if !r.HasData {
		if asJSON {
			return printJSON(w, map[string]any{"message": "No quality metrics available", "total_records": 0})
		}
		fmt.Fprintln(w, "No quality metrics available")
		return nil
	}
	out := reportOutput{
		TotalRecords:       r.TotalRecords,
		StatusDistribution: r.StatusDistribution,
		AverageMetrics:     r.AverageMetrics,
		MetricCoverage:     r.MetricCoverage,
	}
	if asJSON {
		return printJSON(w, out)
	}

	printHeader(w, fmt.Sprintf("QUALITY REPORT (%d records)", out.TotalRecords))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tAVERAGE\tCOVERAGE")
	for _, name := range sortedKeys(out.AverageMetrics) {
		avg := "-"
		if v := out.AverageMetrics[name]; v != nil {
			avg = fmt.Sprintf("%.3f", *v)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, avg, out.MetricCoverage[name])
	}
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintln(tw, "STATUS\tRECORDS\t")
	for _, status := range sortedKeys(out.StatusDistribution) {
		fmt.Fprintf(tw, "%s\t%d\t\n", status, out.StatusDistribution[status])
	}
	return tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
