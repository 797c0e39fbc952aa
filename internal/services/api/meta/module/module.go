// Package module wires meta endpoints into the API
package module

import (
	"opendash/internal/core/version"
	"opendash/internal/modkit"
	"opendash/internal/modkit/httpkit"
	dashdomain "opendash/internal/services/api/dashboard/domain"
	metahttp "opendash/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
}

// New constructs the meta module
// pass the dashboard's CachePort with modkit.WithPorts to enable /meta/cache
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("meta", "/meta", opts...)

	now := deps.Clock()
	d := metahttp.Deps{
		Service: version.Service,
		Since:   now(),
		Clock:   now,
	}
	if p, ok := deps.PG.(metahttp.Probe); ok {
		d.Postgres = p
	}
	if deps.HasCH() {
		if p, ok := deps.CH.(metahttp.Probe); ok {
			d.ClickHouse = p
		}
	}
	if cp, ok := b.Ports.(dashdomain.CachePort); ok {
		d.Cache = cp
	}

	return &Module{Base: modkit.NewBase(b, func(r httpkit.Router) {
		metahttp.Register(r, d)
	})}
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
