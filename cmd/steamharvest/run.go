package main

import (
	"github.com/spf13/cobra"

	"github.com/steamharvest/steamharvest/pkg/report"
	"github.com/steamharvest/steamharvest/pkg/steam"
)

type runOptions struct {
	collect        *collectOptions
	refreshApplist bool
}

func newRunCommand(a *app) *cobra.Command {
	opts := &runOptions{collect: &collectOptions{}}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the whole pipeline: applist, both collects, merge",
		Long: `run executes the full pipeline in order: download the app list unless
one exists, collect both sources and merge the results. Every stage is
resumable, so an interrupted run picks up where it stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, a, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.refreshApplist, "refresh-applist", false, "download the app list even if one exists")
	addCollectFlags(cmd, opts.collect)

	return cmd
}

func runPipeline(cmd *cobra.Command, a *app, opts *runOptions) error {
	ctx := cmd.Context()

	if cmd.Flags().Changed("max-attempts") {
		a.cfg.Client.MaxAttempts = opts.collect.maxAttempts
	}

	listPath := a.dataPath(steam.AppListFile)
	items, err := steam.LoadAppList(listPath)
	if opts.refreshApplist || err != nil {
		if err := runApplist(cmd, a); err != nil {
			return err
		}
		if items, err = steam.LoadAppList(listPath); err != nil {
			return err
		}
	}

	for _, name := range steam.SourceNames() {
		source, err := steam.SourceByName(name)
		if err != nil {
			return err
		}

		fetcher, err := a.newFetcher(ctx, source)
		if err != nil {
			return err
		}

		summary, err := a.collect(ctx, fetcher, source, items, a.resolveOptions(cmd, source, opts.collect))
		if err != nil {
			return err
		}
		report.RunTable(cmd.OutOrStdout(), summary)
	}

	return runMerge(cmd, a, &mergeOptions{})
}
