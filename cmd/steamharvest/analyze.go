package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/steamharvest/steamharvest/pkg/dataset"
	"github.com/steamharvest/steamharvest/pkg/report"
	"github.com/steamharvest/steamharvest/pkg/stats"
)

// defaultAnalyzeColumns are the numeric SteamSpy columns examined when
// --columns is not given.
var defaultAnalyzeColumns = []string{"price", "positive", "negative", "average_forever", "ccu"}

type analyzeOptions struct {
	input     string
	columns   []string
	response  string
	chartsDir string
	noCharts  bool
}

func newAnalyzeCommand(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the merged data and chart relationships",
		Long: `analyze computes descriptive statistics for selected columns of the
merged data file, correlates each one with the response column and
renders a scatter chart with a least squares fit per pair.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "data file to analyze (default merged_data.csv in the data directory)")
	cmd.Flags().StringSliceVar(&opts.columns, "columns", defaultAnalyzeColumns, "columns to summarize")
	cmd.Flags().StringVar(&opts.response, "response", "positive", "column the others are correlated with")
	cmd.Flags().StringVar(&opts.chartsDir, "charts-dir", "", "directory for chart files (default charts under the data directory)")
	cmd.Flags().BoolVar(&opts.noCharts, "no-charts", false, "skip chart rendering")

	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, opts *analyzeOptions) error {
	input := opts.input
	if input == "" {
		input = a.dataPath(dataset.MergedFile)
	}
	chartsDir := opts.chartsDir
	if chartsDir == "" {
		chartsDir = a.dataPath("charts")
	}

	t, err := dataset.Load(input)
	if err != nil {
		return err
	}

	var descriptives []stats.Descriptive
	for _, col := range opts.columns {
		values, err := t.Column(col)
		if err != nil {
			return err
		}
		d, err := stats.Describe(col, values)
		if err != nil {
			a.logger.Warn().Str("column", col).Err(err).Msg("Column skipped")
			continue
		}
		descriptives = append(descriptives, d)
	}
	report.DescriptiveTable(cmd.OutOrStdout(), descriptives)

	var correlations []stats.Correlation
	for _, col := range opts.columns {
		if col == opts.response {
			continue
		}

		xs, ys, err := t.Pair(col, opts.response)
		if err != nil {
			return err
		}
		c, err := stats.Correlate(col, opts.response, xs, ys)
		if err != nil {
			a.logger.Warn().Str("column", col).Err(err).Msg("Correlation skipped")
			continue
		}
		correlations = append(correlations, c)

		if opts.noCharts {
			continue
		}
		var fitp *stats.Regression
		if fit, err := stats.FitLine(xs, ys); err == nil {
			fitp = &fit
		}
		path := filepath.Join(chartsDir, fmt.Sprintf("%s_vs_%s.html", col, opts.response))
		title := fmt.Sprintf("%s vs %s", col, opts.response)
		if err := report.ScatterHTML(path, title, col, opts.response, xs, ys, fitp); err != nil {
			return err
		}
		a.logger.Info().Str("path", path).Msg("Chart written")
	}
	report.CorrelationTable(cmd.OutOrStdout(), correlations)

	return nil
}
