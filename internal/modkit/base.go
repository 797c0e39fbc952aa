package modkit

import (
	"opendash/internal/modkit/httpkit"
	str "opendash/internal/platform/strings"
)

// Base carries the mount plumbing every module embeds; the module itself
// only brings its routes and Ports
type Base struct {
	b      Built
	routes func(httpkit.Router)
}

func NewBase(b Built, routes func(httpkit.Router)) Base { return Base{b: b, routes: routes} }

func (m Base) Name() string { return str.MustString(m.b.Name, "module") }

// Prefix is always slash led without a trailing slash
func (m Base) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// MountRoutes registers the module under its prefix behind its own middleware
func (m Base) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(sub httpkit.Router) {
		if len(m.b.Mw) > 0 {
			sub.Use(m.b.Mw...)
		}
		for _, fn := range []func(httpkit.Router){m.routes, m.b.Register} {
			if fn != nil {
				fn(sub)
			}
		}
	})
}
