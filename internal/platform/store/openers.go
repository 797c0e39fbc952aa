package store

import (
	"context"
	"fmt"
	"time"

	"opendash/internal/platform/logger"
	chx "opendash/internal/platform/store/ch"
	"opendash/internal/platform/store/pg"
)

const (
	defaultConnectRetries = 20
	defaultPingTimeout    = 3 * time.Second
	firstBackoff          = 150 * time.Millisecond
	maxBackoff            = 2 * time.Second
)

func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
		Tracer:   tracer,
	})
	if err != nil {
		return nil, err
	}
	// ping the pool itself so boot retries stay out of the sql trace
	if err := waitReady(ctx, p.Pool.Ping, cfg.PG.ConnectRetries, cfg.PG.PingTimeout, s.Log); err != nil {
		p.Close()
		return nil, err
	}
	return newPGStore(p), nil
}

// waitReady retries ping with doubling backoff; postgres often starts after the api in compose
func waitReady(ctx context.Context, ping func(context.Context) error, attempts int, timeout time.Duration, log logger.Logger) error {
	if attempts <= 0 {
		attempts = defaultConnectRetries
	}
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	var err error
	wait := firstBackoff
	for n := 1; ; n++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if n == attempts {
			return fmt.Errorf("not ready after %d attempts: %w", attempts, err)
		}
		log.Debug().Err(err).Int("attempt", n).Dur("backoff", wait).Msg("postgres not ready")

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait = min(wait*2, maxBackoff)
	}
}

func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	name := cfg.CH.ClientName
	if name == "" {
		name = cfg.AppName
	}
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: name,
		ClientTag:  cfg.CH.ClientTag,
		LogSQL:     cfg.CH.LogSQL,
	}, s.Log)
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
