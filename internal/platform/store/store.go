// Package store opens the Postgres row store and the optional ClickHouse
// rollup store behind small interfaces the repos depend on
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"opendash/internal/platform/logger"
)

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a write statement did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier runs statements, inside or outside a transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner adds transactions on top of RowQuerier
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar rollup store; Insert takes [][]any in column order
type Clickhouse interface {
	Insert(ctx context.Context, table string, data any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Close() error
}

// Pinger reports backend readiness
type Pinger interface{ Ping(context.Context) error }

// Store holds whichever backends were enabled, the others stay nil
type Store struct {
	Log logger.Logger
	PG  TxRunner
	CH  Clickhouse
}

// Option adjusts the Store before backends are opened
type Option func(*Store) error

// WithLogger sets the logger handed to the backend clients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error { s.Log = log; return nil }
}

// Open connects the backends enabled in cfg, postgres first
// a clickhouse failure closes the postgres pool it leaves behind
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := new(Store)
	for _, apply := range opts {
		if err := apply(s); err != nil {
			return nil, err
		}
	}

	if cfg.PG.Enabled {
		pgs, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, fmt.Errorf("store: postgres: %w", err)
		}
		s.PG = pgs
	}
	if !cfg.CH.Enabled {
		return s, nil
	}
	chs, err := openCH(ctx, cfg, s)
	if err != nil {
		_ = s.Close(ctx)
		return nil, fmt.Errorf("store: clickhouse: %w", err)
	}
	s.CH = chs
	return s, nil
}

type backend struct {
	name string
	v    any
}

func (s *Store) backends() []backend {
	return []backend{{"pg", s.PG}, {"ch", s.CH}}
}

// Guard pings each backend that can be pinged and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil")
	}
	var failed []error
	for _, b := range s.backends() {
		if p, ok := b.v.(Pinger); ok && p != nil {
			if err := p.Ping(ctx); err != nil {
				failed = append(failed, fmt.Errorf("%s: %w", b.name, err))
			}
		}
	}
	return errors.Join(failed...)
}

// Close releases every opened backend, clickhouse before postgres
func (s *Store) Close(context.Context) error {
	var failed []error
	for _, b := range slices.Backward(s.backends()) {
		if c, ok := b.v.(interface{ Close() error }); ok && c != nil {
			failed = append(failed, c.Close())
		}
	}
	return errors.Join(failed...)
}
