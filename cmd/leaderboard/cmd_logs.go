package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/leaderboard/internal/config"
	"github.com/five82/leaderboard/internal/logtail"
)

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the runner log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			lines, _ := cmd.Flags().GetInt("lines")
			trialID, _ := cmd.Flags().GetString("trial")
			levelName, _ := cmd.Flags().GetString("level")
			follow, _ := cmd.Flags().GetBool("follow")

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			filter := logtail.Filter{TrialID: trialID}
			if levelName != "" {
				lvl, err := parseLevel(levelName)
				if err != nil {
					return err
				}
				filter.MinLevel = lvl
			}

			tail, err := logtail.Read(cfg.LogFile, lines, filter)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, line := range tail {
				_, _ = fmt.Fprintln(w, logtail.Highlight(line))
			}
			if !follow {
				return nil
			}
			return logtail.Follow(cmd.Context(), cfg.LogFile, filter, func(line string) {
				_, _ = fmt.Fprintln(w, logtail.Highlight(line))
			})
		},
	}
	cmd.Flags().IntP("lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().String("trial", "", "Only show lines for this trial id")
	cmd.Flags().String("level", "", "Minimum level: debug, info, warn, error")
	cmd.Flags().BoolP("follow", "f", false, "Keep printing new lines")
	return cmd
}
