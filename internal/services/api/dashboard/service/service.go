// Package service computes the dashboard views from cached table snapshots
package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"opendash/internal/core/records"
	"opendash/internal/modkit/repokit"
	"opendash/internal/platform/cache"
	"opendash/internal/platform/logger"
	"opendash/internal/services/api/dashboard/domain"
	drepo "opendash/internal/services/api/dashboard/repo"
)

// Config tunes what the views show
type Config struct {
	// NamePrefixes restricts the registry to listings whose name starts with one of them, empty keeps all
	NamePrefixes []string
	TopN         int
	TableLimit   int
}

// Service is the concrete implementation of domain.ServicePort
type Service struct {
	DB    repokit.TxRunner
	Repo  repokit.Binder[drepo.StorageRepo]
	Cache *cache.Cache
	Cfg   Config
	Now   func() time.Time
}

var _ domain.ServicePort = (*Service)(nil)

// New constructs a dashboard service
func New(db repokit.TxRunner, binder repokit.Binder[drepo.StorageRepo], c *cache.Cache, cfg Config, now func() time.Time) *Service {
	if db == nil {
		panic("dashboard.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("dashboard.Service requires a non-nil repo Binder")
	}
	if c == nil {
		c = cache.New()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{DB: db, Repo: binder, Cache: c, Cfg: cfg, Now: now}
}

// snapshot is what one view works from, every slice may be empty
type snapshot struct {
	datasets  []records.Dataset
	api       []records.APICall
	downloads []records.FileDownload
	monthly   []records.MonthlyAggregate

	mu       sync.Mutex
	degraded []domain.Source
}

func (sn *snapshot) fail(src domain.Source) {
	sn.mu.Lock()
	sn.degraded = append(sn.degraded, src)
	sn.mu.Unlock()
}

// fetch loads one table through the cache, each load in its own read transaction
func fetch[T any](ctx context.Context, s *Service, src domain.Source, read func(drepo.StorageRepo, context.Context) ([]T, error)) ([]T, error) {
	return cache.Get(ctx, s.Cache, string(src), func(ctx context.Context) ([]T, error) {
		var out []T
		err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
			var e error
			out, e = read(s.Repo.Bind(q), ctx)
			return e
		})
		return out, err
	})
}

// load fetches the requested sources concurrently
// a failed source leaves its slice empty and is named in degraded, only caller cancellation fails the view
func (s *Service) load(ctx context.Context, need ...domain.Source) (*snapshot, error) {
	sn := &snapshot{}
	var g errgroup.Group
	for _, src := range need {
		g.Go(func() error {
			var err error
			switch src {
			case domain.SourceOpenData:
				sn.datasets, err = fetch(ctx, s, src, drepo.StorageRepo.OpenData)
			case domain.SourceAPICall:
				sn.api, err = fetch(ctx, s, src, drepo.StorageRepo.APICalls)
			case domain.SourceFileDownload:
				sn.downloads, err = fetch(ctx, s, src, drepo.StorageRepo.FileDownloads)
			case domain.SourceMonthly:
				sn.monthly, err = fetch(ctx, s, src, drepo.StorageRepo.Monthly)
			}
			if err != nil {
				logger.C(ctx).Warn().Err(err).Str("source", string(src)).Msg("snapshot unavailable, view degraded")
				sn.fail(src)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sn.sortDegraded(need)
	return sn, nil
}

// sortDegraded puts degraded sources back in request order so responses are stable
func (sn *snapshot) sortDegraded(order []domain.Source) {
	if len(sn.degraded) < 2 {
		return
	}
	failed := make(map[domain.Source]bool, len(sn.degraded))
	for _, d := range sn.degraded {
		failed[d] = true
	}
	sn.degraded = sn.degraded[:0]
	for _, src := range order {
		if failed[src] {
			sn.degraded = append(sn.degraded, src)
		}
	}
}

func (s *Service) today() time.Time { return s.Now() }

func (s *Service) meta(sn *snapshot) domain.Meta {
	return domain.Meta{AsOf: s.today().Format(time.DateOnly), Degraded: sn.degraded}
}

// Purge drops every cached snapshot
func (s *Service) Purge(ctx context.Context) domain.PurgeResp {
	n := s.Cache.Purge()
	logger.C(ctx).Info().Int("purged", n).Msg("dashboard cache purged")
	return domain.PurgeResp{Purged: n}
}

// CacheStats implements domain.CachePort
func (s *Service) CacheStats() domain.CacheStats {
	st := s.Cache.Snapshot()
	return domain.CacheStats{Entries: st.Entries, Fresh: st.Fresh, TTL: st.TTL.String(), Keys: st.Keys}
}
