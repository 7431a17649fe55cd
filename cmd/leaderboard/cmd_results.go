package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/leaderboard/internal/config"
	"github.com/five82/leaderboard/internal/leaderboard"
	"github.com/five82/leaderboard/internal/results"
	"github.com/five82/leaderboard/internal/ui"
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List recorded trial results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			format, _ := cmd.Flags().GetString("format")

			return withResults(cmd, func(ctx context.Context, store *results.Store) error {
				recs, err := store.List(ctx, limit)
				if err != nil {
					return err
				}
				switch format {
				case "json":
					return renderResultsJSON(cmd.OutOrStdout(), recs)
				case "table", "":
					renderResultsTable(cmd.OutOrStdout(), recs)
					return nil
				default:
					return fmt.Errorf("unknown format %q (want table or json)", format)
				}
			})
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum results to list (0 for all)")
	cmd.Flags().String("format", "table", "Output format: table or json")
	cmd.AddCommand(newResultsShowCmd())
	return cmd
}

func newResultsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <trial-id>",
		Short: "Print the final table of one recorded trial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResults(cmd, func(ctx context.Context, store *results.Store) error {
				rec, err := store.Get(ctx, args[0])
				if err != nil {
					return fmt.Errorf("get result %s: %w", args[0], err)
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s  %s  ended by %s after %s\n",
					rec.TrialID, rec.Name, rec.Trigger, rec.Elapsed().Round(time.Millisecond))
				if rec.Error != "" {
					_, _ = fmt.Fprintf(w, "error: %s\n", rec.Error)
					return nil
				}
				_, _ = fmt.Fprintln(w, ui.RenderTable(leaderboard.Render(rec.Rows, rec.Columns), ""))
				return nil
			})
		},
	}
}

// withResults opens the configured results store for the duration of fn.
func withResults(cmd *cobra.Command, fn func(context.Context, *results.Store) error) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := results.Open(cmd.Context(), cfg.ResultsPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(cmd.Context(), store)
}

func renderResultsTable(w io.Writer, recs []results.Record) {
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(w, "(0 results)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Trial", "Name", "Ended", "Trigger", "Elapsed", "Rows", "Refreshes", "Error"})
	for _, rec := range recs {
		t.AppendRow(table.Row{
			rec.TrialID,
			rec.Name,
			rec.EndedAt.Local().Format("2006-01-02 15:04:05"),
			string(rec.Trigger),
			rec.Elapsed().Round(time.Millisecond).String(),
			len(rec.Rows),
			rec.Refreshes,
			rec.Error,
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d results)\n", len(recs))
}

type resultJSON struct {
	TrialID   string                   `json:"trial_id"`
	Name      string                   `json:"name"`
	Trigger   string                   `json:"trigger"`
	Error     string                   `json:"error,omitempty"`
	StartedAt time.Time                `json:"started_at"`
	EndedAt   time.Time                `json:"ended_at"`
	Refreshes int                      `json:"refreshes"`
	Columns   []leaderboard.ColumnSpec `json:"columns"`
	Rows      []leaderboard.Row        `json:"rows"`
}

func renderResultsJSON(w io.Writer, recs []results.Record) error {
	out := make([]resultJSON, len(recs))
	for i, rec := range recs {
		out[i] = resultJSON{
			TrialID:   rec.TrialID,
			Name:      rec.Name,
			Trigger:   string(rec.Trigger),
			Error:     rec.Error,
			StartedAt: rec.StartedAt,
			EndedAt:   rec.EndedAt,
			Refreshes: rec.Refreshes,
			Columns:   rec.Columns,
			Rows:      rec.Rows,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
