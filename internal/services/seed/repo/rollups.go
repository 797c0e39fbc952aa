package repo

import (
	"context"

	"opendash/internal/modkit/repokit"
	"opendash/internal/services/seed/domain"
)

// every column is Int64 so appended int64 values never need a cast, FINAL dedupes reseeds
const monthlyDDL = `
CREATE TABLE IF NOT EXISTS monthly_stats (
	year Int64,
	month Int64,
	total_datasets Int64,
	molit_datasets Int64,
	total_downloads Int64,
	total_api_calls Int64,
	updated_datasets Int64,
	outdated_datasets Int64
) ENGINE = ReplacingMergeTree
ORDER BY (year, month)`

type rollups struct{ ch repokit.Clickhouse }

// NewRollups returns a clickhouse RollupSink
func NewRollups(ch repokit.Clickhouse) domain.RollupSink { return &rollups{ch: ch} }

func (r *rollups) EnsureMonthly(ctx context.Context) error {
	return r.ch.Exec(ctx, monthlyDDL)
}

// InsertMonthly appends rows in the column order of the seed batch
func (r *rollups) InsertMonthly(ctx context.Context, rows [][]any) error {
	return r.ch.Insert(ctx, string(domain.Monthly), rows)
}
