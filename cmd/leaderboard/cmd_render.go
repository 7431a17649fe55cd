package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/leaderboard/internal/app"
	"github.com/five82/leaderboard/internal/trialfile"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <trials.yaml>",
		Short: "Print the tables of a trial file without running it",
		Long: `Validate each trial, load its rows once and print the table.

With --format html the output is the fragment a browser host would show:
the table stylesheet, the table and, for trials without a duration, the
continue button.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			prefsPath, _ := cmd.Flags().GetString("prefs")
			wwlURL, _ := cmd.Flags().GetString("wwl-url")
			format, _ := cmd.Flags().GetString("format")

			trials, err := trialfile.Load(args[0])
			if err != nil {
				return err
			}

			env, err := app.Setup(cmd.Context(), app.Options{
				ConfigPath: configPath,
				PrefsPath:  prefsPath,
				WWLURL:     wwlURL,
				NoResults:  true,
			})
			if err != nil {
				return err
			}
			defer env.Close()

			return app.Render(cmd.Context(), cmd.OutOrStdout(), trials, app.RenderOptions{
				Format: format,
				Theme:  env.Config.Theme,
				Remote: env.Client,
			})
		},
	}
	cmd.Flags().String("format", app.FormatText, "Output format: text or html")
	cmd.Flags().String("wwl-url", "", "World-Wide-Lab base URL (overrides wwl_url)")
	return cmd
}
