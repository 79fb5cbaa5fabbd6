package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steamharvest/steamharvest/pkg/checkpoint"
	"github.com/steamharvest/steamharvest/pkg/steam"
)

type resetOptions struct {
	purge bool
}

func newResetCommand(a *app) *cobra.Command {
	opts := &resetOptions{}

	cmd := &cobra.Command{
		Use:   "reset <source|all>",
		Short: "Reset a source's checkpoint to the beginning",
		Long: `reset sets a source's checkpoint back to zero so the next collect run
starts from the top of the app list. Collected rows are kept unless
--purge is given; recollecting without --purge appends duplicate rows.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: append(steam.SourceNames(), "all"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd, a, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.purge, "purge", false, "also delete the source's data file")

	return cmd
}

func runReset(cmd *cobra.Command, a *app, name string, opts *resetOptions) error {
	names := []string{name}
	if name == "all" {
		names = steam.SourceNames()
	}

	for _, n := range names {
		source, err := steam.SourceByName(n)
		if err != nil {
			return err
		}

		if err := checkpoint.NewStore(a.dataPath(source.IndexFile)).Reset(); err != nil {
			return err
		}

		if opts.purge {
			if err := os.Remove(a.dataPath(source.DataFile)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove %s: %w", source.DataFile, err)
			}
		}

		a.logger.Info().Str("source", source.Name).Bool("purged", opts.purge).Msg("Checkpoint reset")
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s checkpoint\n", source.Name)
	}
	return nil
}
