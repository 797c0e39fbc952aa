package store

import (
	"context"
	"errors"
	"time"

	"opendash/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is what *pgxpool.Pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxBeginner interface {
	pgxQuerier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// traced runs statements on q and reports each one to the tracer
type traced struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	slow   time.Duration // negative disables the slow flag
}

func (t traced) observe(ctx context.Context, sql string, args []any, began time.Time, err error) {
	if t.tracer == nil {
		return
	}
	took := time.Since(began)
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: took.Microseconds(),
		Err:       err,
		Slow:      t.slow >= 0 && took >= t.slow,
	})
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	began := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.observe(ctx, sql, args, began, err)
	return ct, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	began := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	t.observe(ctx, sql, args, began, err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

// QueryRow reports once Scan has run so the scan error is part of the event
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	began := time.Now()
	return scanHook{
		row: t.q.QueryRow(ctx, sql, args...),
		done: func(err error) {
			t.observe(ctx, sql, args, began, err)
		},
	}
}

// pgStore is the TxRunner backed by a pgx pool
type pgStore struct {
	traced
	db    pgxBeginner
	close func()
}

func newPGStore(p *pg.PG) *pgStore {
	return &pgStore{
		traced: traced{q: p.Pool, tracer: p.Tracer, slow: time.Duration(p.SlowMs) * time.Millisecond},
		db:     p.Pool,
		close:  p.Close,
	}
}

// Tx commits when fn returns nil and rolls back otherwise
func (s *pgStore) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	in := s.traced
	in.q = tx
	if err := fn(in); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

func (s *pgStore) Ping(ctx context.Context) error {
	var one int
	return s.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (s *pgStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

type scanHook struct {
	row  pgx.Row
	done func(error)
}

func (h scanHook) Scan(dst ...any) error {
	err := h.row.Scan(dst...)
	h.done(err)
	return err
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fds := r.FieldDescriptions()
	names := make([]string, 0, len(fds))
	for _, fd := range fds {
		names = append(names, fd.Name)
	}
	return names
}
