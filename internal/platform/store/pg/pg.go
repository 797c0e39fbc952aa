// Package pg opens the pgx pool behind the store's Postgres backend
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config describes one pool
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
	AppName  string      // shows up as application_name in pg_stat_activity
	Tracer   QueryTracer // nil disables statement logging
}

// PG owns the pool plus the tracing settings the store adapter reads
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// connect is swapped in tests
var connect = pgxpool.NewWithConfig

// Open builds the pool; tune hooks run last and may override anything
func Open(ctx context.Context, cfg Config, tune ...func(*pgxpool.Config)) (*PG, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		if pc.ConnConfig.RuntimeParams == nil {
			pc.ConnConfig.RuntimeParams = make(map[string]string, 1)
		}
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	for _, fn := range tune {
		fn(pc)
	}

	pool, err := connect(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pg: pool: %w", err)
	}
	return &PG{Pool: pool, Tracer: cfg.Tracer, SlowMs: cfg.SlowMs}, nil
}

// Close is safe on nil
func (p *PG) Close() {
	if p == nil || p.Pool == nil {
		return
	}
	p.Pool.Close()
}
