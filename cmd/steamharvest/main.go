// Package main provides the steamharvest CLI: a resumable collector for
// Steam storefront and SteamSpy app data.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, app := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	app.close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
