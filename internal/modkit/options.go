package modkit

import (
	"net/http"

	"opendash/internal/modkit/httpkit"
)

// Built is what a module constructor reads back after options ran
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(httpkit.Router) // extra routes, mounted after the module's own
}

// Option overrides one part of a module's defaults
type Option func(*Built)

// Build starts from the module's own name and prefix and applies opts in order
func Build(name, prefix string, opts ...Option) Built {
	b := Built{Name: name, Prefix: prefix}
	for _, o := range opts {
		o(&b)
	}
	return b
}

func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix changes the mount path under /api/v1
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends module scoped middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands a module the ports of a module it depends on
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithRegister mounts extra endpoints next to the module's own
func WithRegister(fn func(httpkit.Router)) Option { return func(b *Built) { b.Register = fn } }
