package httpkit

import (
	"opendash/internal/platform/net/middleware"

	phttp "opendash/internal/platform/net/http"
)

// Protected groups routes under bearer auth
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}

// AdminOnly groups routes under bearer auth that also require RoleAdmin
// a nil port denies everything rather than opening the routes
func AdminOnly(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		if p == nil {
			p = NewPortFunc(nil)
		}
		gr.Use(Auth(p), middleware.RequireRole(RoleAdmin, phttp.JSON))
		fn(gr)
	})
}
