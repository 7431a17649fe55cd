package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/leaderboard/internal/app"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <trials.yaml>",
		Short: "Run the trials in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			prefsPath, _ := cmd.Flags().GetString("prefs")
			wwlURL, _ := cmd.Flags().GetString("wwl-url")
			levelName, _ := cmd.Flags().GetString("log-level")
			noResults, _ := cmd.Flags().GetBool("no-results")

			level, err := parseLevel(levelName)
			if err != nil {
				return err
			}

			return app.Run(cmd.Context(), app.Options{
				ConfigPath: configPath,
				PrefsPath:  prefsPath,
				TrialPath:  args[0],
				WWLURL:     wwlURL,
				LogLevel:   level,
				NoResults:  noResults,
			})
		},
	}
	cmd.Flags().String("wwl-url", "", "World-Wide-Lab base URL (overrides wwl_url)")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().Bool("no-results", false, "Do not record trial results")
	return cmd
}
