// Package api mounts the dashboard API modules
package api

import (
	"time"

	"opendash/internal/platform/config"
	"opendash/internal/platform/logger"
	phttp "opendash/internal/platform/net/http"
	"opendash/internal/platform/net/middleware"
	"opendash/internal/platform/store"

	"opendash/internal/modkit"
	"opendash/internal/modkit/httpkit"
	"opendash/internal/modkit/module"
	"opendash/internal/modkit/swaggerkit"

	catalogmod "opendash/internal/services/api/catalog/module"
	chatmod "opendash/internal/services/api/chat/module"
	dashdomain "opendash/internal/services/api/dashboard/domain"
	dashmod "opendash/internal/services/api/dashboard/module"
	metamod "opendash/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	// Config is the root conf, modules pick their own CORE_<MODULE>_ prefix
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Now pins the clock, nil means time.Now
	Now func() time.Time
}

// Mount builds every module and mounts it under /api/v1
func Mount(r phttp.Router, opt Options) []module.Module {
	r.Use(middleware.Heartbeat("/healthz"))

	apiCfg := opt.Config.Prefix("CORE_API_")
	deps := modkit.Deps{
		Cfg: opt.Config,
		Now: opt.Now,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}
	if tokens := apiCfg.MayCSV("ADMIN_TOKENS", nil); len(tokens) > 0 {
		deps.Admin = httpkit.NewPortFunc(httpkit.StaticTokens(tokens))
	} else {
		deps.Log.Warn().Msg("no admin tokens configured, cache purge is disabled")
	}

	// meta reports on the dashboard cache, so dashboard is built first
	dash := dashmod.New(deps)
	cache := module.MustPortsOf[dashdomain.CachePort](dash)

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts[dashdomain.CachePort](cache)),
		dash,
		catalogmod.New(deps),
		chatmod.New(deps),
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
		Timeout:     apiCfg.MayDuration("REQUEST_TIMEOUT", 60*time.Second),
		SlowRequest: apiCfg.MayDuration("SLOW_REQUEST", 2*time.Second),
		MaxInFlight: apiCfg.MayInt("MAX_INFLIGHT", 0),
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPI(r, "v1", stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
			deps.Log.Debug().Str("module", m.Name()).Str("prefix", m.Prefix()).Msg("module mounted")
		}
	})
	return mods
}
