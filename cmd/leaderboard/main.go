package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "leaderboard: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Run leaderboard trials in the terminal",
		Long: `leaderboard shows ranked score tables as experiment trials.

Trials come from a YAML file and either carry their rows inline or fetch
them from a World-Wide-Lab leaderboard, optionally refreshing while shown.
Each finished trial is recorded in a local results database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.config/leaderboard/config.toml)")
	rootCmd.PersistentFlags().String("prefs", "", "prefs file (default ~/.config/leaderboard/prefs.toml)")

	rootCmd.AddCommand(
		newRunCmd(),
		newRenderCmd(),
		newResultsCmd(),
		newLogsCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// parseLevel accepts slog level names such as "debug" or "warn+2".
func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid level %q: %w", s, err)
	}
	return lvl, nil
}
