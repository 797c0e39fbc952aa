// Package service proxies the portal listing and substitutes the fixed listing when it cannot answer
package service

import (
	"context"
	"fmt"

	"opendash/internal/adapters/catalog"
	"opendash/internal/platform/cache"
	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
	"opendash/internal/services/api/catalog/domain"
)

// Service implements domain.ServicePort
type Service struct {
	Client domain.Lister
	Cache  *cache.Cache
}

// New constructs a Service
func New(c domain.Lister, pages *cache.Cache) *Service {
	if c == nil {
		panic("catalog service: nil client")
	}
	if pages == nil {
		pages = cache.New()
	}
	return &Service{Client: c, Cache: pages}
}

var _ domain.ServicePort = (*Service)(nil)

// errEmpty is not retried, an empty listing will not fill itself in a second
var errEmpty = perr.NotFoundf("catalog returned no datasets")

// List returns the requested page or the fixed listing
// only portal answers are cached so a recovered portal is seen on the next call
func (s *Service) List(ctx context.Context, in domain.ListInput) (domain.ListResp, error) {
	page, per := in.Page, in.PerPage
	if page < 1 {
		page = 1
	}
	if per < 1 {
		per = s.Client.PerPage()
	}
	log := logger.C(ctx)

	if !s.Client.HasKey() {
		log.Debug().Msg("catalog key not set, serving fallback listing")
		return fallback(), nil
	}

	key := fmt.Sprintf("catalog:%d:%d", page, per)
	p, err := cache.Get(ctx, s.Cache, key, func(ctx context.Context) (catalog.Page, error) {
		p, err := s.Client.List(ctx, page, per)
		if err != nil {
			return catalog.Page{}, err
		}
		if len(p.Data) == 0 {
			return catalog.Page{}, errEmpty
		}
		return p, nil
	})
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return domain.ListResp{}, cerr
		}
		log.Warn().Err(err).Int("page", page).Int("per_page", per).Msg("catalog unavailable, serving fallback listing")
		return fallback(), nil
	}
	return domain.ListResp{Data: p.Data, CurrentCount: p.CurrentCount, TotalCount: p.TotalCount}, nil
}

func fallback() domain.ListResp {
	p := catalog.Fallback()
	return domain.ListResp{Data: p.Data, CurrentCount: p.CurrentCount, TotalCount: p.TotalCount, Fallback: true}
}
