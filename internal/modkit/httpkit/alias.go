// Package httpkit provides handler and routing helpers that alias the platform http package
// use these from modules so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "opendash/internal/platform/net/http"
)

type (
	// Response is what Handle-style handlers return
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// Raw returns a response written without the envelope
func Raw(status int, body any) Response { return phttp.Raw(status, body) }

// Get registers a handler without input binding
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.CallHandler(h))
}

// GetQuery registers a handler whose query string binds and validates into T
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, phttp.QueryHandler(h))
}

// Post registers a body-less POST handler
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, phttp.CallHandler(h))
}

// PostJSON registers a handler whose JSON body binds and validates into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// Handle lets you directly adapt a Response-returning function
func Handle(fn func(*http.Request) Response) Handler {
	return phttp.Handle(fn)
}
