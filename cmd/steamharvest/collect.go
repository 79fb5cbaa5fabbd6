package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/steamharvest/steamharvest/pkg/checkpoint"
	"github.com/steamharvest/steamharvest/pkg/client"
	"github.com/steamharvest/steamharvest/pkg/collector"
	"github.com/steamharvest/steamharvest/pkg/config"
	"github.com/steamharvest/steamharvest/pkg/record"
	"github.com/steamharvest/steamharvest/pkg/report"
	"github.com/steamharvest/steamharvest/pkg/sink"
	"github.com/steamharvest/steamharvest/pkg/steam"
)

type collectOptions struct {
	batchSize       int
	pause           time.Duration
	end             int
	maxAttempts     int
	continueOnError bool
	progress        bool
}

func newCollectCommand(a *app) *cobra.Command {
	opts := &collectOptions{}

	cmd := &cobra.Command{
		Use:   "collect <source>",
		Short: "Collect app records from one source into its CSV file",
		Long: `collect fetches app details for every entry of the app list, in batches,
and appends them to the source's CSV file. The position is checkpointed
after each batch, so rerunning the command resumes where the previous
run stopped. Run the reset command to start over from the beginning.

Valid sources: steam, steamspy.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: steam.SourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd, a, args[0], opts)
		},
	}

	addCollectFlags(cmd, opts)

	return cmd
}

// addCollectFlags registers the engine knobs shared by collect and run.
func addCollectFlags(cmd *cobra.Command, opts *collectOptions) {
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", config.DefaultBatchSize, "apps fetched per batch")
	cmd.Flags().DurationVar(&opts.pause, "pause", 0, "delay after each app (0 uses the source default)")
	cmd.Flags().IntVar(&opts.end, "end", 0, "stop after this many apps (0 collects the whole list)")
	cmd.Flags().IntVar(&opts.maxAttempts, "max-attempts", config.DefaultMaxAttempts, "give up on a request after this many attempts (0 retries forever)")
	cmd.Flags().BoolVar(&opts.continueOnError, "continue-on-error", false, "write a placeholder row instead of aborting when an app fails")
	cmd.Flags().BoolVar(&opts.progress, "progress", config.DefaultProgress, "show a progress bar")
}

func runCollect(cmd *cobra.Command, a *app, name string, opts *collectOptions) error {
	source, err := steam.SourceByName(name)
	if err != nil {
		return err
	}

	items, err := steam.LoadAppList(a.dataPath(steam.AppListFile))
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("max-attempts") {
		a.cfg.Client.MaxAttempts = opts.maxAttempts
	}
	fetcher, err := a.newFetcher(cmd.Context(), source)
	if err != nil {
		return err
	}

	summary, err := a.collect(cmd.Context(), fetcher, source, items, a.resolveOptions(cmd, source, opts))
	if err != nil {
		return err
	}

	report.RunTable(cmd.OutOrStdout(), summary)
	return nil
}

// collect runs the batch engine for one source, resuming from its
// checkpoint.
func (a *app) collect(ctx context.Context, fetcher *client.Fetcher, source steam.Source, items []record.Item, opts collector.Options) (*collector.Summary, error) {
	store := checkpoint.NewStore(a.dataPath(source.IndexFile))
	cursor, err := store.Load()
	if err != nil {
		return nil, err
	}
	opts.Start = cursor

	out := sink.NewCSV(a.dataPath(source.DataFile), source.Schema)
	return collector.New(newParser(source, fetcher), out, store).Run(ctx, items, opts)
}

// resolveOptions merges configuration values and flag overrides into the
// engine options for one source.
func (a *app) resolveOptions(cmd *cobra.Command, source steam.Source, opts *collectOptions) collector.Options {
	ro := collector.Options{
		Source:          source.Name,
		End:             a.cfg.Collect.End,
		BatchSize:       a.cfg.Collect.BatchSize,
		Pause:           source.Pause,
		ContinueOnError: a.cfg.Collect.ContinueOnError,
		Progress:        a.cfg.Collect.Progress,
	}
	if a.cfg.Collect.Pause > 0 {
		ro.Pause = a.cfg.Collect.Pause
	}

	flags := cmd.Flags()
	if flags.Changed("batch-size") {
		ro.BatchSize = opts.batchSize
	}
	if flags.Changed("pause") {
		ro.Pause = opts.pause
	}
	if flags.Changed("end") {
		ro.End = opts.end
	}
	if flags.Changed("continue-on-error") {
		ro.ContinueOnError = opts.continueOnError
	}
	if flags.Changed("progress") {
		ro.Progress = opts.progress
	}
	return ro
}

// newParser picks the response parser for a source.
func newParser(source steam.Source, fetcher *client.Fetcher) collector.Parser {
	if source.Name == "steamspy" {
		return steam.NewSpyParser(fetcher)
	}
	return steam.NewStoreParser(fetcher)
}
