// Package http serves the operator endpoints under /meta
package http

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"opendash/internal/core/version"
	"opendash/internal/modkit/httpkit"
	dashdomain "opendash/internal/services/api/dashboard/domain"
)

// probeTimeout bounds one readiness round
const probeTimeout = 2 * time.Second

// Probe is anything readiness can ping, both stores qualify
type Probe interface {
	Ping(context.Context) error
}

// Deps feeds the meta endpoints
// ClickHouse stays nil when it is disabled, Cache when no dashboard is mounted
type Deps struct {
	Service    string
	Since      time.Time
	Postgres   Probe
	ClickHouse Probe
	Cache      dashdomain.CachePort
	Clock      func() time.Time
}

// Liveness answers /health
type Liveness struct {
	Alive   bool   `json:"alive"   example:"true"`
	Service string `json:"service" example:"opendash-api"`
	Since   string `json:"since"   example:"2024-06-15T09:00:00Z"`
	At      string `json:"at"      example:"2024-06-15T09:05:00Z"`
}

// ProbeResult is one store in a readiness round
// State is ok, fail or off
type ProbeResult struct {
	Store  string `json:"store"            example:"pg"`
	State  string `json:"state"            example:"ok"`
	Reason string `json:"reason,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// Readiness answers /ready, Ready is false when any probe failed
type Readiness struct {
	Ready  bool          `json:"ready"`
	Probes []ProbeResult `json:"probes"`
	At     string        `json:"at" example:"2024-06-15T09:05:00Z"`
}

// About answers /service
type About struct {
	Service       string `json:"service"       example:"opendash-api"`
	Since         string `json:"since"         example:"2024-06-15T09:00:00Z"`
	UptimeSeconds int64  `json:"uptimeSeconds" example:"300"`
}

// CacheView answers /cache
type CacheView struct {
	Mounted bool                   `json:"mounted"`
	Stats   *dashdomain.CacheStats `json:"stats,omitempty"`
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	m := meta(d)

	httpkit.Get(r, "/health", m.health)
	r.Get("/ready", httpkit.Handle(m.ready))
	httpkit.Get(r, "/version", m.version)
	httpkit.Get(r, "/service", m.about)
	httpkit.Get(r, "/cache", m.cache)
}

type meta Deps

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// swagger:route GET /meta/health Meta metaHealth
// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} Liveness "alive"
// @Router /meta/health [get]
func (m meta) health(_ *http.Request) (any, error) {
	return Liveness{Alive: true, Service: m.Service, Since: stamp(m.Since), At: stamp(m.Clock())}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness of postgres and, when enabled, clickhouse
// @Tags Meta
// @Produce json
// @Success 200 {object} Readiness "ready"
// @Failure 503 {object} Readiness "a store is down"
// @Router /meta/ready [get]
func (m meta) ready(r *http.Request) httpkit.Response {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	out := Readiness{
		Ready: true,
		Probes: []ProbeResult{
			{Store: "pg"},
			{Store: "ch"},
		},
	}
	stores := []Probe{m.Postgres, m.ClickHouse}

	var g errgroup.Group
	for i, p := range stores {
		res := &out.Probes[i]
		if p == nil {
			res.State = "off"
			continue
		}
		g.Go(func() error {
			res.State = "ok"
			if err := p.Ping(ctx); err != nil {
				res.State, res.Reason = "fail", err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	// postgres backs every view, running without it is never ready
	if m.Postgres == nil {
		out.Probes[0] = ProbeResult{Store: "pg", State: "fail", Reason: "pg not configured"}
	}
	for _, p := range out.Probes {
		if p.State == "fail" {
			out.Ready = false
		}
	}
	out.At = stamp(m.Clock())

	if !out.Ready {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}
	}
	return httpkit.Response{Status: http.StatusOK, Body: out}
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (m meta) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} About "ok"
// @Router /meta/service [get]
func (m meta) about(_ *http.Request) (any, error) {
	up := m.Clock().Sub(m.Since)
	return About{Service: m.Service, Since: stamp(m.Since), UptimeSeconds: int64(up.Seconds())}, nil
}

// swagger:route GET /meta/cache Meta metaCache
// @Summary Dashboard snapshot cache size and freshness
// @Tags Meta
// @Produce json
// @Success 200 {object} CacheView "ok"
// @Router /meta/cache [get]
func (m meta) cache(_ *http.Request) (any, error) {
	if m.Cache == nil {
		return CacheView{}, nil
	}
	st := m.Cache.CacheStats()
	return CacheView{Mounted: true, Stats: &st}, nil
}
