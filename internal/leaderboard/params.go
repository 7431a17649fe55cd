package leaderboard

import (
	"maps"
	"strings"
	"time"
)

// Params is the option bag a host supplies for one trial. Zero values mean
// "not set" unless noted.
type Params struct {
	// Data holds static rows. nil means unset; an empty non-nil slice is a
	// valid, empty leaderboard.
	Data []Row

	// LeaderboardID selects a remote leaderboard. Requires Remote.
	LeaderboardID string
	Remote        ScoreFetcher

	// Columns fixes column order and labels. nil derives them from the data.
	Columns []ColumnSpec

	ScoreLevel   ScoreLevel // defaults to individual
	FetchOptions map[string]any

	// RefreshInterval re-fetches remote scores while displayed. Zero disables.
	RefreshInterval time.Duration

	LoadingMessage string
	TableStyles    string

	// Duration ends the trial automatically. nil shows a continue control
	// instead; zero ends the trial right after the first render.
	Duration *time.Duration
}

// initializer is implemented by remote clients that need setup before use.
type initializer interface {
	Initialized() bool
}

// Validate checks the options and produces an immutable TrialConfig. Every
// failure is a *ConfigurationError and nothing is fetched or displayed.
func (p Params) Validate() (TrialConfig, error) {
	hasData := p.Data != nil
	hasID := strings.TrimSpace(p.LeaderboardID) != ""

	if !hasData && !hasID {
		return TrialConfig{}, configErrorf("You must specify either 'data' or 'leaderboard_id'")
	}
	if hasData && hasID {
		return TrialConfig{}, configErrorf("You must exclusively specify either 'data' OR 'leaderboard_id'")
	}
	if hasID && p.Remote == nil {
		return TrialConfig{}, configErrorf("You must pass in a remote client when using 'leaderboard_id'")
	}
	if hasID {
		if client, ok := p.Remote.(initializer); ok && !client.Initialized() {
			return TrialConfig{}, configErrorf("You must initialize the World-Wide-Lab client before using the leaderboard")
		}
	}

	level := p.ScoreLevel
	if level == "" {
		level = LevelIndividual
	}
	if !level.Valid() {
		return TrialConfig{}, configErrorf("Parameter 'score_level' must be either 'individual' or 'groups', got %q", string(level))
	}

	for i, col := range p.Columns {
		if col.Key == "" {
			return TrialConfig{}, configErrorf("column %d has no key", i)
		}
	}
	if hasData && len(p.Data) == 0 && p.Columns == nil {
		return TrialConfig{}, configErrorf("Parameter 'columns' is required when 'data' is empty")
	}
	if p.Duration != nil && *p.Duration < 0 {
		return TrialConfig{}, configErrorf("Parameter 'duration' must not be negative")
	}

	cfg := TrialConfig{
		Columns:         cloneColumns(p.Columns),
		TableStyles:     p.TableStyles,
		RefreshInterval: p.RefreshInterval,
		LoadingMessage:  p.LoadingMessage,
	}
	if cfg.TableStyles == "" {
		cfg.TableStyles = DefaultTableStyles
	}
	if cfg.LoadingMessage == "" {
		cfg.LoadingMessage = DefaultLoadingMessage
	}
	if p.Duration != nil {
		d := *p.Duration
		cfg.Duration = &d
	}

	if hasData {
		cfg.Source = StaticSource{Rows: cloneRows(p.Data)}
	} else {
		opts := map[string]any{}
		maps.Copy(opts, p.FetchOptions)
		cfg.Source = RemoteSource{
			LeaderboardID: strings.TrimSpace(p.LeaderboardID),
			Level:         level,
			Options:       opts,
			Client:        p.Remote,
		}
	}
	return cfg, nil
}

func cloneColumns(cols []ColumnSpec) []ColumnSpec {
	if cols == nil {
		return nil
	}
	dup := make([]ColumnSpec, len(cols))
	copy(dup, cols)
	return dup
}
