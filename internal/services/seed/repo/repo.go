// Package repo writes seed batches to postgres and rollups to clickhouse
package repo

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"opendash/internal/modkit/repokit"
	"opendash/internal/services/seed/domain"
)

//go:embed schema.sql
var schemaSQL string

// Postgres caps a statement at 65535 bind parameters
const maxParams = 65535

// DefaultChunk is the row count per INSERT statement
const DefaultChunk = 500

type queries struct{ q repokit.Queryer }

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() domain.Binder {
	return repokit.BindFunc[domain.StorageRepo](func(q repokit.Queryer) domain.StorageRepo {
		return &queries{q: q}
	})
}

// Statements splits the embedded schema into single statements
func Statements() []string {
	var out []string
	for _, s := range strings.Split(schemaSQL, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// EnsureSchema creates every table the api reads, it is idempotent
func (r *queries) EnsureSchema(ctx context.Context) error {
	for _, s := range Statements() {
		if _, err := r.q.Exec(ctx, s); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// Lock serializes concurrent seeds of the same table until the transaction ends
func (r *queries) Lock(ctx context.Context, t domain.Table) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "seed:"+string(t))
	return err
}

// Truncate empties the table
func (r *queries) Truncate(ctx context.Context, t domain.Table) error {
	_, err := r.q.Exec(ctx, "TRUNCATE TABLE "+quoteIdent(string(t)))
	return err
}

// Upsert writes the batch in chunks, rows with an existing key are replaced
func (r *queries) Upsert(ctx context.Context, b domain.Batch, chunk int) (int64, error) {
	if b.Len() == 0 {
		return 0, nil
	}
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	if limit := maxParams / len(b.Columns); chunk > limit {
		chunk = limit
	}

	var n int64
	for start := 0; start < b.Len(); start += chunk {
		end := min(start+chunk, b.Len())
		sql, args := UpsertSQL(b, start, end)
		tag, err := r.q.Exec(ctx, sql, args...)
		if err != nil {
			return n, fmt.Errorf("upsert %s rows %d-%d: %w", b.Table, start, end, err)
		}
		n += tag.RowsAffected()
	}
	return n, nil
}

// UpsertSQL renders one multi row INSERT ... ON CONFLICT for rows[start:end]
func UpsertSQL(b domain.Batch, start, end int) (string, []any) {
	var sb strings.Builder
	cols := make([]string, len(b.Columns))
	for i, c := range b.Columns {
		cols[i] = quoteIdent(c)
	}
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", quoteIdent(string(b.Table)), strings.Join(cols, ", "))

	args := make([]any, 0, (end-start)*len(b.Columns))
	for i, row := range b.Rows[start:end] {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			args = append(args, v)
			fmt.Fprintf(&sb, "$%d", len(args))
		}
		sb.WriteByte(')')
	}

	keys := make([]string, len(b.Key))
	for i, k := range b.Key {
		keys[i] = quoteIdent(k)
	}
	var sets []string
	for _, c := range b.Columns {
		if !contains(b.Key, c) {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", quoteIdent(c), quoteIdent(c)))
		}
	}
	fmt.Fprintf(&sb, " ON CONFLICT (%s)", strings.Join(keys, ", "))
	if len(sets) == 0 {
		sb.WriteString(" DO NOTHING")
	} else {
		sb.WriteString(" DO UPDATE SET " + strings.Join(sets, ", "))
	}
	return sb.String(), args
}

func quoteIdent(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` }

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
