// Package module wires the dashboard views into the API
package module

import (
	"strings"
	"time"

	"opendash/internal/core/stats"
	"opendash/internal/modkit"
	"opendash/internal/modkit/httpkit"
	"opendash/internal/modkit/repokit"
	"opendash/internal/platform/cache"
	"opendash/internal/platform/config"
	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
	"opendash/internal/services/api/dashboard/domain"
	dashhttp "opendash/internal/services/api/dashboard/http"
	"opendash/internal/services/api/dashboard/repo"
	"opendash/internal/services/api/dashboard/service"
)

// DefaultNamePrefixes are the ministry listing prefixes, note the trailing space on the second
const DefaultNamePrefixes = "국토교통부_,국토교통부 "

// Ports exposes the dashboard to sibling modules
type Ports struct {
	Service domain.ServicePort
	Cache   domain.CachePort
}

// Module implements the dashboard module
type Module struct {
	modkit.Base
	ports Ports
}

// Settings are the CORE_DASHBOARD_* knobs
type Settings struct {
	CacheTTL         time.Duration
	RetryDelay       time.Duration
	Page             repokit.PageSpec
	StatementTimeout time.Duration
	Service          service.Config
}

// LoadSettings reads CORE_DASHBOARD_* from cfg
func LoadSettings(cfg config.Conf) Settings {
	c := cfg.Prefix("CORE_DASHBOARD_")
	return Settings{
		CacheTTL:   c.MayDuration("CACHE_TTL", cache.DefaultTTL),
		RetryDelay: c.MayDuration("RETRY_DELAY", cache.DefaultRetryDelay),
		Page: repokit.PageSpec{
			Size:      c.MayInt("PAGE_SIZE", repokit.DefaultPageSize),
			MaxOffset: c.MayInt("MAX_OFFSET", repokit.DefaultMaxOffset),
		},
		StatementTimeout: c.MayDuration("STATEMENT_TIMEOUT", 15*time.Second),
		Service: service.Config{
			NamePrefixes: SplitPrefixes(c.MayString("NAME_PREFIXES", DefaultNamePrefixes)),
			TopN:         c.MayInt("TOP_N", stats.TopN),
			TableLimit:   c.MayInt("TABLE_LIMIT", stats.TableLimit),
		},
	}
}

// SplitPrefixes splits on commas without trimming, a prefix may end in a space
// "-" disables the filter
func SplitPrefixes(raw string) []string {
	if strings.TrimSpace(raw) == "-" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimLeft(p, " "))
		}
	}
	return out
}

// New constructs the dashboard module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("dashboard", "/dashboard", opts...)

	set := LoadSettings(deps.Cfg)
	snapshots := cache.New(
		cache.WithTTL(set.CacheTTL),
		cache.WithRetryDelay(set.RetryDelay),
		cache.WithRetryable(perr.Retryable),
		cache.WithLogger(*logger.Named("dashboard.cache")),
	)
	db := repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(set.StatementTimeout), repokit.ReadOnly())
	svc := service.New(db, repo.NewHybrid(deps.CH, set.Page), snapshots, set.Service, deps.Clock())

	m := &Module{ports: Ports{Service: svc, Cache: svc}}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) {
		dashhttp.Register(r, svc, deps.Admin)
	})
	return m
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
