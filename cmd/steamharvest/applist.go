package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/steamharvest/steamharvest/pkg/steam"
)

func newApplistCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "applist",
		Short: "Download the app catalog from SteamSpy",
		Long: `applist queries SteamSpy for every known app and writes the catalog,
sorted by appid, to app_list.csv in the data directory. The collect
command reads this file to know which apps to fetch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApplist(cmd, a)
		},
	}
}

func runApplist(cmd *cobra.Command, a *app) error {
	fetcher, err := a.newFetcher(cmd.Context(), steam.SpySource())
	if err != nil {
		return err
	}

	items, err := steam.FetchAppList(cmd.Context(), fetcher)
	if err != nil {
		return err
	}

	path := a.dataPath(steam.AppListFile)
	if err := steam.SaveAppList(path, items); err != nil {
		return err
	}

	a.logger.Info().Int("apps", len(items)).Str("path", path).Msg("App list saved")
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s apps to %s\n", humanize.Comma(int64(len(items))), path)
	return nil
}
