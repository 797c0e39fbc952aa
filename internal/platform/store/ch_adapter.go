package store

import (
	"context"
	"errors"
	"fmt"

	"opendash/internal/platform/store/ch"
)

// chConn is the slice of *ch.CH the store needs
type chConn interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Ping(ctx context.Context) error
	Close() error
}

// chStore narrows Insert to [][]any and adapts ch.Rows to Rows
type chStore struct{ chConn }

func newCHAdapter(c chConn) Clickhouse { return chStore{c} }

func (s chStore) Insert(ctx context.Context, table string, data any) error {
	rows, ok := data.([][]any)
	if !ok {
		return fmt.Errorf("store: clickhouse insert into %s wants [][]any, got %T", table, data)
	}
	return s.chConn.Insert(ctx, table, rows)
}

func (s chStore) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := s.chConn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rs}, nil
}

func (s chStore) Ping(ctx context.Context) error {
	if s.chConn == nil {
		return errors.New("store: clickhouse not connected")
	}
	return s.chConn.Ping(ctx)
}

// chRows drops the Close error, reads report failures through Err
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
