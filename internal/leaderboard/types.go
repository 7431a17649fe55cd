package leaderboard

import (
	"context"
	"time"
)

// ScoreLevel selects which aggregate the remote leaderboard returns.
type ScoreLevel string

const (
	LevelIndividual ScoreLevel = "individual"
	LevelGroups     ScoreLevel = "groups"
)

// Valid reports whether the level is one of the supported literals.
func (l ScoreLevel) Valid() bool {
	return l == LevelIndividual || l == LevelGroups
}

// nameKey returns the score field holding the public display name.
func (l ScoreLevel) nameKey() string {
	if l == LevelGroups {
		return "publicGroupName"
	}
	return "publicIndividualName"
}

// ColumnSpec describes one displayed column. A nil Label falls back to Key;
// an empty Label is kept as is.
type ColumnSpec struct {
	Key   string  `json:"key"`
	Label *string `json:"label,omitempty"`
}

// Column returns a ColumnSpec without a label.
func Column(key string) ColumnSpec {
	return ColumnSpec{Key: key}
}

// LabeledColumn returns a ColumnSpec with an explicit label.
func LabeledColumn(key, label string) ColumnSpec {
	return ColumnSpec{Key: key, Label: &label}
}

// Header returns the text shown in the table header for this column.
func (c ColumnSpec) Header() string {
	if c.Label == nil {
		return c.Key
	}
	return *c.Label
}

// ScoreFetcher retrieves leaderboard scores from a remote service.
type ScoreFetcher interface {
	FetchScores(ctx context.Context, leaderboardID string, level ScoreLevel, options map[string]any) ([]Row, error)
}

// Source is where a trial's rows come from. It is either StaticSource or
// RemoteSource.
type Source interface {
	source()
}

// StaticSource serves caller-supplied rows.
type StaticSource struct {
	Rows []Row
}

// RemoteSource fetches rows from a leaderboard service.
type RemoteSource struct {
	LeaderboardID string
	Level         ScoreLevel
	Options       map[string]any
	Client        ScoreFetcher
}

func (StaticSource) source() {}
func (RemoteSource) source() {}

// Fetch loads the current scores for the source.
func (s RemoteSource) Fetch(ctx context.Context) ([]Row, error) {
	rows, err := s.Client.FetchScores(ctx, s.LeaderboardID, s.Level, s.Options)
	if err != nil {
		return nil, &FetchError{LeaderboardID: s.LeaderboardID, Err: err}
	}
	return rows, nil
}

// TrialConfig is a validated, immutable trial configuration.
type TrialConfig struct {
	Source          Source
	Columns         []ColumnSpec // nil derives defaults at resolution time
	TableStyles     string
	Duration        *time.Duration
	RefreshInterval time.Duration
	LoadingMessage  string
}

// Remote reports the remote source when the trial uses one.
func (c TrialConfig) Remote() (RemoteSource, bool) {
	r, ok := c.Source.(RemoteSource)
	return r, ok
}

// Trigger records what ended a trial.
type Trigger string

const (
	TriggerDuration  Trigger = "duration"
	TriggerContinue  Trigger = "continue"
	TriggerError     Trigger = "error"
	TriggerCancelled Trigger = "cancelled"
)

// Output is reported to the host when a trial terminates.
type Output struct {
	TrialID   string
	Rows      []Row
	Columns   []ColumnSpec
	Trigger   Trigger
	Err       error
	StartedAt time.Time
	EndedAt   time.Time
	Refreshes int
}

// Elapsed returns how long the trial ran.
func (o Output) Elapsed() time.Duration {
	return o.EndedAt.Sub(o.StartedAt)
}

const (
	// DefaultLoadingMessage is shown while the initial fetch is in flight.
	DefaultLoadingMessage = "Loading leaderboard data."

	// TableClass is the class attribute of rendered HTML tables.
	TableClass = "jspsych-leaderboard-table"

	// ContinueLabel is the text of the continue control.
	ContinueLabel = "Continue"
)

// DefaultTableStyles is the stylesheet used when a trial does not set one.
const DefaultTableStyles = `
        .jspsych-leaderboard-table {
          border-collapse: collapse;
          margin: 25px auto;
          font-family: sans-serif;
          min-width: 400px;
          box-shadow: 0 0 20px rgba(0, 0, 0, 0.15);
        }
        .jspsych-leaderboard-table thead tr {
          background-color: #009879;
          color: #ffffff;
          text-align: left;
        }
        .jspsych-leaderboard-table th,
        .jspsych-leaderboard-table td {
          padding: 12px 15px;
          text-align: left;
        }
        .jspsych-leaderboard-table tbody tr {
          border-bottom: 1px solid #dddddd;
        }
        .jspsych-leaderboard-table tbody tr:nth-of-type(even) {
          background-color: #f3f3f3;
        }
        .jspsych-leaderboard-table tbody tr:last-of-type {
          border-bottom: 2px solid #009879;
        }`
