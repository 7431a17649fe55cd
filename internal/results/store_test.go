package results

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/leaderboard/internal/leaderboard"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAndGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	out := leaderboard.Output{
		TrialID: "t-1",
		Rows: []leaderboard.Row{
			leaderboard.NewRow(leaderboard.Field{Key: "name", Value: "Ann"}, leaderboard.Field{Key: "score", Value: 10}),
		},
		Columns:   []leaderboard.ColumnSpec{leaderboard.LabeledColumn("name", "Player"), leaderboard.Column("score")},
		Trigger:   leaderboard.TriggerContinue,
		StartedAt: start,
		EndedAt:   start.Add(1500 * time.Millisecond),
		Refreshes: 2,
	}
	require.NoError(t, s.Save(ctx, FromOutput("practice", out)))

	got, err := s.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "practice", got.Name)
	assert.Equal(t, leaderboard.TriggerContinue, got.Trigger)
	assert.Empty(t, got.Error)
	assert.Equal(t, 2, got.Refreshes)
	assert.Equal(t, 1500*time.Millisecond, got.Elapsed())
	assert.Equal(t, out.Columns, got.Columns)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, []string{"name", "score"}, got.Rows[0].Keys())
	assert.Equal(t, "10", leaderboard.FormatValue(got.Rows[0].Get("score")))
}

func TestStore_SavesErrorOutputs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	out := leaderboard.Output{
		TrialID:   "t-err",
		Trigger:   leaderboard.TriggerError,
		Err:       errors.New("configuration error: bad"),
		StartedAt: time.Now(),
		EndedAt:   time.Now(),
	}
	require.NoError(t, s.Save(ctx, FromOutput("", out)))

	got, err := s.Get(ctx, "t-err")
	require.NoError(t, err)
	assert.Equal(t, "configuration error: bad", got.Error)
	assert.Empty(t, got.Rows)
	assert.Empty(t, got.Columns)
}

func TestStore_ListNewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		rec := Record{
			TrialID:   id,
			Trigger:   leaderboard.TriggerDuration,
			StartedAt: base,
			EndedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.Save(ctx, rec))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].TrialID, all[1].TrialID, all[2].TrialID})

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestStore_SaveReplacesAndRequiresID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.Error(t, s.Save(ctx, Record{}))

	rec := Record{TrialID: "x", Trigger: leaderboard.TriggerDuration, StartedAt: time.Now(), EndedAt: time.Now()}
	require.NoError(t, s.Save(ctx, rec))
	rec.Trigger = leaderboard.TriggerCancelled
	require.NoError(t, s.Save(ctx, rec))

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, leaderboard.TriggerCancelled, all[0].Trigger)
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
