// Package results persists completed trial outputs in SQLite.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/five82/leaderboard/internal/leaderboard"
)

const schema = `
CREATE TABLE IF NOT EXISTS trial_results (
	trial_id    TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	end_trigger TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	started_at  TEXT NOT NULL,
	ended_at    TEXT NOT NULL,
	refreshes   INTEGER NOT NULL DEFAULT 0,
	column_json TEXT NOT NULL DEFAULT '[]',
	row_json    TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_trial_results_ended ON trial_results(ended_at);
`

// timeLayout has a fixed width so ended_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Record is one stored trial output.
type Record struct {
	TrialID   string
	Name      string
	Trigger   leaderboard.Trigger
	Error     string
	StartedAt time.Time
	EndedAt   time.Time
	Refreshes int
	Columns   []leaderboard.ColumnSpec
	Rows      []leaderboard.Row
}

// Elapsed returns how long the trial ran.
func (r Record) Elapsed() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// FromOutput converts a trial output into a Record.
func FromOutput(name string, out leaderboard.Output) Record {
	rec := Record{
		TrialID:   out.TrialID,
		Name:      name,
		Trigger:   out.Trigger,
		StartedAt: out.StartedAt,
		EndedAt:   out.EndedAt,
		Refreshes: out.Refreshes,
		Columns:   out.Columns,
		Rows:      out.Rows,
	}
	if out.Err != nil {
		rec.Error = out.Err.Error()
	}
	return rec
}

// Store is a SQLite-backed results store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create results directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open results database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize results schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces the record for rec.TrialID.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.TrialID == "" {
		return errors.New("trial id is required")
	}
	columns, err := json.Marshal(nonNil(rec.Columns))
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}
	rows, err := json.Marshal(nonNil(rec.Rows))
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trial_results
			(trial_id, name, end_trigger, error, started_at, ended_at, refreshes, column_json, row_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TrialID, rec.Name, string(rec.Trigger), rec.Error,
		rec.StartedAt.UTC().Format(timeLayout), rec.EndedAt.UTC().Format(timeLayout),
		rec.Refreshes, string(columns), string(rows))
	if err != nil {
		return fmt.Errorf("save trial %s: %w", rec.TrialID, err)
	}
	return nil
}

// List returns the most recently ended records first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT trial_id, name, end_trigger, error, started_at, ended_at, refreshes, column_json, row_json
		FROM trial_results ORDER BY ended_at DESC, trial_id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rs, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rs.Close()

	var out []Record
	for rs.Next() {
		rec, err := scanRecord(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return out, nil
}

// Get returns the record for trialID, or sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, trialID string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT trial_id, name, end_trigger, error, started_at, ended_at, refreshes, column_json, row_json
		FROM trial_results WHERE trial_id = ?`, trialID)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec                   Record
		trigger               string
		started, ended        string
		columnsJSON, rowsJSON string
	)
	if err := sc.Scan(&rec.TrialID, &rec.Name, &trigger, &rec.Error, &started, &ended, &rec.Refreshes, &columnsJSON, &rowsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan result: %w", err)
	}
	rec.Trigger = leaderboard.Trigger(trigger)

	var err error
	if rec.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Record{}, fmt.Errorf("parse started_at: %w", err)
	}
	if rec.EndedAt, err = time.Parse(timeLayout, ended); err != nil {
		return Record{}, fmt.Errorf("parse ended_at: %w", err)
	}
	if err := json.Unmarshal([]byte(columnsJSON), &rec.Columns); err != nil {
		return Record{}, fmt.Errorf("decode columns: %w", err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &rec.Rows); err != nil {
		return Record{}, fmt.Errorf("decode rows: %w", err)
	}
	return rec, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
