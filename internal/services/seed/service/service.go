// Package service runs a seed: decode every export, upsert it, mirror rollups
package service

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/google/uuid"

	"opendash/internal/modkit/repokit"
	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
	"opendash/internal/services/seed/domain"
)

// Service implements domain.RunnerPort
type Service struct {
	DB      repokit.TxRunner
	Repo    domain.Binder
	Loader  domain.Loader
	Rollups domain.RollupSink // nil when clickhouse is disabled

	now func() time.Time
	ids func() uuid.UUID
}

// New constructs the seed service, rollups may be nil
func New(db repokit.TxRunner, repo domain.Binder, loader domain.Loader, rollups domain.RollupSink) *Service {
	if db == nil || repo == nil || loader == nil {
		panic("seed service: nil dependency")
	}
	return &Service{DB: db, Repo: repo, Loader: loader, Rollups: rollups, now: time.Now, ids: uuid.New}
}

// Run seeds every requested table, one transaction per table
// a missing export is skipped, any other failure stops the run
func (s *Service) Run(ctx context.Context, o domain.Options) ([]domain.Report, error) {
	tables := o.Tables
	if len(tables) == 0 {
		tables = domain.Tables()
	}
	if o.CH && s.Rollups == nil {
		return nil, perr.Configf("clickhouse rollups requested but clickhouse is disabled")
	}

	batch := s.ids().String()
	log := logger.Named("seed").With().Str("batch", batch).Logger()
	log.Info().Str("dir", o.Dir).Int("tables", len(tables)).Bool("truncate", o.Truncate).Bool("ch", o.CH).Msg("seed started")

	if err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Repo.Bind(q).EnsureSchema(ctx)
	}); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "ensure schema")
	}
	if o.CH {
		if err := s.Rollups.EnsureMonthly(ctx); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "ensure clickhouse rollups")
		}
	}

	reports := make([]domain.Report, 0, len(tables))
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		rep, err := s.seed(ctx, t, o)
		if err != nil {
			log.Error().Err(err).Str("table", string(t)).Msg("seed failed")
			return reports, err
		}
		reports = append(reports, rep)
		ev := log.Info().Str("table", string(t))
		if rep.Skipped {
			ev.Msg("export missing, skipped")
			continue
		}
		ev.Int64("rows", rep.Rows).Int("rollups", rep.Rollups).Dur("took", rep.Duration).Msg("table seeded")
	}
	log.Info().Int("tables", len(reports)).Msg("seed finished")
	return reports, nil
}

func (s *Service) seed(ctx context.Context, t domain.Table, o domain.Options) (domain.Report, error) {
	start := s.now()
	rep := domain.Report{Table: t}

	b, err := s.Loader.Load(t)
	if errors.Is(err, fs.ErrNotExist) {
		rep.Skipped = true
		return rep, nil
	}
	if err != nil {
		return rep, err
	}

	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		r := s.Repo.Bind(q)
		if err := r.Lock(ctx, t); err != nil {
			return err
		}
		if o.Truncate {
			if err := r.Truncate(ctx, t); err != nil {
				return err
			}
		}
		n, err := r.Upsert(ctx, b, o.Chunk)
		rep.Rows = n
		return err
	})
	if err != nil {
		return rep, perr.Wrapf(err, perr.ErrorCodeDB, "seed %s", t)
	}

	// postgres stays the source of truth, clickhouse only mirrors committed rollups
	if o.CH && t == domain.Monthly && b.Len() > 0 {
		if err := s.Rollups.InsertMonthly(ctx, b.Rows); err != nil {
			return rep, perr.Wrap(err, perr.ErrorCodeDB, "insert clickhouse rollups")
		}
		rep.Rollups = b.Len()
	}
	rep.Duration = s.now().Sub(start)
	return rep, nil
}
