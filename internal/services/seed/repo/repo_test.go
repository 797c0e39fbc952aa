package repo

import (
	"context"
	"strings"
	"testing"

	"opendash/internal/modkit/repokit"
	"opendash/internal/services/seed/domain"
)

type tag int64

func (t tag) String() string      { return "INSERT" }
func (t tag) RowsAffected() int64 { return int64(t) }

type recorder struct {
	repokit.Queryer
	sqls []string
	args [][]any
}

func (r *recorder) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	r.sqls = append(r.sqls, sql)
	r.args = append(r.args, args)
	return tag(len(args)), nil
}

func TestUpsertSQL(t *testing.T) {
	b := domain.Batch{
		Table:   domain.Monthly,
		Columns: []string{"year", "month", "total_datasets"},
		Key:     []string{"year", "month"},
		Rows:    [][]any{{int64(2024), int64(1), int64(3)}, {int64(2024), int64(2), nil}},
	}
	sql, args := UpsertSQL(b, 0, 2)
	want := `INSERT INTO "monthly_stats" ("year", "month", "total_datasets") VALUES ($1, $2, $3), ($4, $5, $6)` +
		` ON CONFLICT ("year", "month") DO UPDATE SET "total_datasets" = EXCLUDED."total_datasets"`
	if sql != want {
		t.Fatalf("sql =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 6 || args[5] != nil {
		t.Fatalf("args = %v", args)
	}
}

func TestUpsertSQLKeyOnly(t *testing.T) {
	b := domain.Batch{Table: "t", Columns: []string{"ID"}, Key: []string{"ID"}, Rows: [][]any{{int64(1)}}}
	sql, _ := UpsertSQL(b, 0, 1)
	if !strings.HasSuffix(sql, `ON CONFLICT ("ID") DO NOTHING`) {
		t.Fatalf("sql = %s", sql)
	}
}

func TestUpsertChunks(t *testing.T) {
	rows := make([][]any, 5)
	for i := range rows {
		rows[i] = []any{int64(i + 1), "x"}
	}
	b := domain.Batch{Table: domain.OpenData, Columns: []string{"ID", "목록명"}, Key: []string{"ID"}, Rows: rows}

	rec := &recorder{}
	n, err := NewPG().Bind(rec).Upsert(context.Background(), b, 2)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(rec.sqls) != 3 {
		t.Fatalf("statements = %d", len(rec.sqls))
	}
	// the recorder reports one affected row per bound argument
	if n != 10 {
		t.Fatalf("affected = %d", n)
	}
	if !strings.HasPrefix(rec.sqls[0], `INSERT INTO "openData" ("ID", "목록명")`) {
		t.Fatalf("sql = %s", rec.sqls[0])
	}
}

func TestUpsertEmpty(t *testing.T) {
	rec := &recorder{}
	n, err := NewPG().Bind(rec).Upsert(context.Background(), domain.Batch{Table: domain.APICall}, 0)
	if err != nil || n != 0 || len(rec.sqls) != 0 {
		t.Fatalf("n=%d err=%v sqls=%v", n, err, rec.sqls)
	}
}

func TestEnsureSchemaAndLock(t *testing.T) {
	rec := &recorder{}
	r := NewPG().Bind(rec)
	if err := r.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if len(rec.sqls) != len(Statements()) {
		t.Fatalf("statements = %d", len(rec.sqls))
	}
	joined := strings.Join(rec.sqls, "\n")
	for _, table := range []string{`"openData"`, "api_call", "files_download", "monthly_stats", "chat_sessions", "chat_messages"} {
		if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("schema misses %s", table)
		}
	}

	rec.sqls = nil
	_ = r.Lock(context.Background(), domain.APICall)
	_ = r.Truncate(context.Background(), domain.OpenData)
	if rec.args[len(rec.args)-2][0] != "seed:api_call" || rec.sqls[1] != `TRUNCATE TABLE "openData"` {
		t.Fatalf("sqls = %v args = %v", rec.sqls, rec.args)
	}
}

type fakeCH struct {
	repokit.Clickhouse
	execs  []string
	table  string
	insert any
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeCH) Insert(_ context.Context, table string, data any) error {
	f.table, f.insert = table, data
	return nil
}

func TestRollups(t *testing.T) {
	ch := &fakeCH{}
	r := NewRollups(ch)
	if err := r.EnsureMonthly(context.Background()); err != nil {
		t.Fatalf("EnsureMonthly: %v", err)
	}
	if len(ch.execs) != 1 || !strings.Contains(ch.execs[0], "ReplacingMergeTree") {
		t.Fatalf("execs = %v", ch.execs)
	}
	rows := [][]any{{int64(2024), int64(5)}}
	if err := r.InsertMonthly(context.Background(), rows); err != nil {
		t.Fatalf("InsertMonthly: %v", err)
	}
	if ch.table != "monthly_stats" {
		t.Fatalf("table = %s", ch.table)
	}
	if got, ok := ch.insert.([][]any); !ok || len(got) != 1 {
		t.Fatalf("insert = %#v", ch.insert)
	}
}
