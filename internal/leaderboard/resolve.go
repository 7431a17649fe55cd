package leaderboard

import (
	"context"
	"fmt"
)

// Resolve produces the rows and columns a trial displays. Remote sources are
// fetched once; the error is a *FetchError when the request fails.
func Resolve(ctx context.Context, cfg TrialConfig) ([]Row, []ColumnSpec, error) {
	switch src := cfg.Source.(type) {
	case StaticSource:
		cols := cfg.Columns
		if cols == nil {
			if len(src.Rows) == 0 {
				return nil, nil, configErrorf("Parameter 'columns' is required when 'data' is empty")
			}
			cols = ColumnsFromRow(src.Rows[0])
		}
		return src.Rows, cols, nil
	case RemoteSource:
		rows, err := src.Fetch(ctx)
		if err != nil {
			return nil, nil, err
		}
		cols := cfg.Columns
		if cols == nil {
			cols = RemoteColumns(src.Level)
		}
		return rows, cols, nil
	default:
		return nil, nil, fmt.Errorf("unsupported source %T", cfg.Source)
	}
}

// ColumnsFromRow derives unlabeled columns from a row's keys in insertion
// order.
func ColumnsFromRow(row Row) []ColumnSpec {
	keys := row.Keys()
	cols := make([]ColumnSpec, len(keys))
	for i, k := range keys {
		cols[i] = Column(k)
	}
	return cols
}

// RemoteColumns returns the default name and score columns for a level.
func RemoteColumns(level ScoreLevel) []ColumnSpec {
	return []ColumnSpec{
		LabeledColumn(level.nameKey(), "Name"),
		LabeledColumn("score", "Score"),
	}
}
