// Package main provides the entry point for the fanbase server and tooling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "fanbase",
		Short:   "Backend for a fan community site: characters, relationships, lore, theories and timelines",
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newInitCmd(),
		newSeedCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
