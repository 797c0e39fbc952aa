// Package module wires the catalog proxy into the API
package module

import (
	"time"

	"opendash/internal/adapters/catalog"
	"opendash/internal/modkit"
	"opendash/internal/modkit/httpkit"
	"opendash/internal/platform/cache"
	"opendash/internal/platform/config"
	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
	"opendash/internal/services/api/catalog/domain"
	cathttp "opendash/internal/services/api/catalog/http"
	"opendash/internal/services/api/catalog/service"
)

// Ports exposes the catalog to sibling modules
type Ports struct {
	Service domain.ServicePort
}

// Module implements the catalog module
type Module struct {
	modkit.Base
	ports Ports
}

// LoadOptions reads CORE_CATALOG_* into client options
func LoadOptions(cfg config.Conf) catalog.Options {
	c := cfg.Prefix("CORE_CATALOG_")
	return catalog.Options{
		BaseURL:     c.MayString("BASE_URL", ""),
		ServicePath: c.MayString("SERVICE_PATH", ""),
		ServiceKey:  c.MayString("SERVICE_KEY", ""),
		Timeout:     c.MayDuration("TIMEOUT", 10*time.Second),
		PerPage:     c.MayInt("PER_PAGE", 1000),
	}
}

// New constructs the catalog module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("catalog", "/catalog", opts...)

	client := catalog.NewClient(LoadOptions(deps.Cfg))
	if !client.HasKey() {
		deps.Log.Warn().Msg("CORE_CATALOG_SERVICE_KEY not set, catalog serves the fallback listing")
	}
	pages := cache.New(
		cache.WithTTL(deps.Cfg.Prefix("CORE_CATALOG_").MayDuration("CACHE_TTL", cache.DefaultTTL)),
		cache.WithRetryable(perr.Retryable),
		cache.WithClock(deps.Clock()),
		cache.WithLogger(*logger.Named("catalog.cache")),
	)
	svc := service.New(client, pages)

	m := &Module{ports: Ports{Service: svc}}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) {
		cathttp.Register(r, svc)
	})
	return m
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
