package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	perr "opendash/internal/platform/errors"
	pnet "opendash/internal/platform/net"
)

// chiRouter adapts chi.Router to Router, root and sub routers alike
type chiRouter struct{ r chi.Router }

// AdaptChi adapts a *chi.Mux to a Router and installs enveloped 404 and 405 replies
func AdaptChi(m *chi.Mux) Router {
	r := chiRouter{r: m}
	r.NotFound(Handle(func(req *http.Request) Response {
		return Fail(perr.NotFoundf("no route for %s %s", req.Method, req.URL.Path))
	}))
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		JSON(w, http.StatusMethodNotAllowed, Envelope{
			StatusCode: http.StatusMethodNotAllowed,
			Status:     http.StatusText(http.StatusMethodNotAllowed),
			Code:       perr.ErrorCodeInvalidArgument,
			Error:      "method " + req.Method + " not allowed",
			RequestID:  pnet.RequestID(req.Context()),
		})
	})
	return r
}

func (c chiRouter) Get(p string, h Handler)    { c.r.Method(http.MethodGet, p, http.HandlerFunc(h)) }
func (c chiRouter) Post(p string, h Handler)   { c.r.Method(http.MethodPost, p, http.HandlerFunc(h)) }
func (c chiRouter) Delete(p string, h Handler) { c.r.Method(http.MethodDelete, p, http.HandlerFunc(h)) }
func (c chiRouter) Options(p string, h Handler) {
	c.r.Method(http.MethodOptions, p, http.HandlerFunc(h))
}

func (c chiRouter) Handle(p string, h http.Handler)           { c.r.Handle(p, h) }
func (c chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.r.Use(mw...) }

func (c chiRouter) Group(fn func(Router)) {
	c.r.Group(func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.r.Route(pattern, func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

func (c chiRouter) NotFound(h Handler)         { c.r.NotFound(h) }
func (c chiRouter) MethodNotAllowed(h Handler) { c.r.MethodNotAllowed(h) }

// Mux returns the underlying handler, chi.Router implements http.Handler
func (c chiRouter) Mux() http.Handler { return c.r }
