package main

import (
	"github.com/spf13/cobra"

	"github.com/steamharvest/steamharvest/pkg/dataset"
	"github.com/steamharvest/steamharvest/pkg/report"
	"github.com/steamharvest/steamharvest/pkg/steam"
)

type mergeOptions struct {
	out string
}

func newMergeCommand(a *app) *cobra.Command {
	opts := &mergeOptions{}

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Join the Steam and SteamSpy CSV files on appid",
		Long: `merge joins the two collected CSV files on appid into a single file,
keeping only apps present in both. Duplicate rows left behind by
interrupted runs are collapsed, keeping the most recent fetch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMerge(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", "", "output file (default merged_data.csv in the data directory)")

	return cmd
}

func runMerge(cmd *cobra.Command, a *app, opts *mergeOptions) error {
	out := opts.out
	if out == "" {
		out = a.dataPath(dataset.MergedFile)
	}

	result, err := dataset.Merge(
		a.dataPath(steam.StoreSource().DataFile),
		a.dataPath(steam.SpySource().DataFile),
		out,
	)
	if err != nil {
		return err
	}

	a.logger.Info().Int("rows", result.Rows).Str("path", out).Msg("Merged data written")
	report.MergeTable(cmd.OutOrStdout(), result)
	return nil
}
