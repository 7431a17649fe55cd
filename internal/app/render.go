package app

import (
	"context"
	"fmt"
	"io"

	"github.com/five82/leaderboard/internal/leaderboard"
	"github.com/five82/leaderboard/internal/trialfile"
	"github.com/five82/leaderboard/internal/ui"
)

// Render formats.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// RenderOptions configure Render.
type RenderOptions struct {
	Format string // FormatText (default) or FormatHTML
	Theme  string
	Remote leaderboard.ScoreFetcher
}

// Render validates each trial, resolves its rows once and writes the table
// without running the trial. Remote trials are fetched through opts.Remote.
func Render(ctx context.Context, w io.Writer, trials []trialfile.Trial, opts RenderOptions) error {
	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatHTML {
		return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatText, FormatHTML)
	}

	for i, trial := range trials {
		params := trial.Params
		if trial.Remote() && opts.Remote != nil {
			params.Remote = opts.Remote
		}
		cfg, err := params.Validate()
		if err != nil {
			return fmt.Errorf("trial %q: %w", trial.Name, err)
		}
		rows, columns, err := leaderboard.Resolve(ctx, cfg)
		if err != nil {
			return fmt.Errorf("trial %q: %w", trial.Name, err)
		}
		table := leaderboard.Render(rows, columns)

		if format == FormatHTML {
			if err := leaderboard.WriteHTML(w, table, cfg.TableStyles, cfg.Duration == nil); err != nil {
				return fmt.Errorf("write html: %w", err)
			}
			_, _ = fmt.Fprintln(w)
			continue
		}

		if len(trials) > 1 {
			if i > 0 {
				_, _ = fmt.Fprintln(w)
			}
			_, _ = fmt.Fprintln(w, trial.Name)
		}
		_, _ = fmt.Fprintln(w, ui.RenderTable(table, opts.Theme))
	}
	return nil
}
