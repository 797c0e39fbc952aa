// Package repokit provides the types and helpers repositories are written against
package repokit

import (
	"context"

	"opendash/internal/platform/store"
)

type (
	// Queryer is the read and write surface a bound repo runs on
	Queryer = store.RowQuerier

	// TxRunner opens transactions
	TxRunner = store.TxRunner

	// Clickhouse is the optional rollup store
	Clickhouse = store.Clickhouse

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result
	Row = store.Row

	// CommandTag reports what a write touched
	CommandTag = store.CommandTag
)

// Record is one row keyed by its column names
type Record = map[string]any

// Maps runs sql and returns every row keyed by column name
// values keep the driver's native types, callers coerce them at the record boundary
func Maps(ctx context.Context, q Queryer, sql string, args ...any) ([]Record, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return ScanMaps(rows)
}

// ScanMaps drains rows into column keyed maps and closes them
func ScanMaps(rows Rows) ([]Record, error) {
	defer rows.Close()
	cols := rows.Columns()
	var out []Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(Record, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
