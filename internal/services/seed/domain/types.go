// Package domain holds the seed loader types and ports
package domain

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"opendash/internal/core/records"
	"opendash/internal/modkit/repokit"
	perr "opendash/internal/platform/errors"
)

// Table is one seedable backend table
type Table string

// Seedable tables, in load order
const (
	OpenData     Table = records.TableOpenData
	APICall      Table = records.TableAPICall
	FileDownload Table = records.TableFileDownload
	Monthly      Table = records.TableMonthlyStats
)

// Tables returns every seedable table in load order
func Tables() []Table { return []Table{OpenData, APICall, FileDownload, Monthly} }

// File is the csv export name read for the table
func (t Table) File() string { return string(t) + ".csv" }

// ParseTables parses a comma separated table list, empty means all
func ParseTables(raw string) ([]Table, error) {
	if strings.TrimSpace(raw) == "" {
		return Tables(), nil
	}
	var out []Table
	for _, p := range strings.Split(raw, ",") {
		t := Table(strings.TrimSpace(p))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		if !slices.Contains(Tables(), t) {
			return nil, perr.InvalidArgf("unknown table %q", t)
		}
		out = append(out, t)
	}
	// keep load order so telemetry lands after the registry it joins against
	slices.SortFunc(out, func(a, b Table) int {
		return slices.Index(Tables(), a) - slices.Index(Tables(), b)
	})
	return out, nil
}

// Batch is one decoded csv export, rows are in Columns order
type Batch struct {
	Table   Table
	Columns []string
	Key     []string
	Rows    [][]any
}

// Len reports the number of rows
func (b Batch) Len() int { return len(b.Rows) }

// Options drive a single seed run
type Options struct {
	Dir      string
	Tables   []Table
	Truncate bool
	CH       bool
	Chunk    int
}

// Report is the per table outcome of a run
type Report struct {
	Table    Table
	Rows     int64
	Rollups  int
	Skipped  bool
	Duration time.Duration
}

func (r Report) String() string {
	if r.Skipped {
		return fmt.Sprintf("%s: skipped", r.Table)
	}
	return fmt.Sprintf("%s: %d rows, %d rollups, %s", r.Table, r.Rows, r.Rollups, r.Duration.Round(time.Millisecond))
}

// Loader decodes the csv export of one table
type Loader interface {
	Load(t Table) (Batch, error)
}

// StorageRepo writes seed batches inside one transaction
type StorageRepo interface {
	EnsureSchema(ctx context.Context) error
	Lock(ctx context.Context, t Table) error
	Truncate(ctx context.Context, t Table) error
	Upsert(ctx context.Context, b Batch, chunk int) (int64, error)
}

// RollupSink receives monthly rollups, backed by clickhouse
type RollupSink interface {
	EnsureMonthly(ctx context.Context) error
	InsertMonthly(ctx context.Context, rows [][]any) error
}

// RunnerPort is what the seed binary drives
type RunnerPort interface {
	Run(ctx context.Context, o Options) ([]Report, error)
}

// Binder binds StorageRepo to a transaction
type Binder = repokit.Binder[StorageRepo]
