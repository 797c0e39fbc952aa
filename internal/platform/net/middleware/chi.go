// Package middleware holds the request pipeline pieces: chi's stock
// middlewares re-exported under one type, plus the in house ones
package middleware

import (
	"net/http"
	"time"

	pstrings "opendash/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Func is one layer of the pipeline
type Func = func(http.Handler) http.Handler

// chi middlewares used as is
var (
	RequestID    Func = chimw.RequestID
	RealIP       Func = chimw.RealIP
	NoCache      Func = chimw.NoCache
	StripSlashes Func = chimw.StripSlashes
)

func Timeout(d time.Duration) Func { return chimw.Timeout(d) }

// Heartbeat answers GET path with 200 before routing, for load balancer probes
func Heartbeat(path string) Func { return chimw.Heartbeat(path) }

// Compress gzips/deflates responses at the given flate level
func Compress(level int) Func { return chimw.NewCompressor(level).Handler }

// Throttle caps in-flight requests; once the backlog is full callers get 429
func Throttle(limit, backlog int, wait time.Duration) Func {
	return chimw.ThrottleBacklog(limit, backlog, wait)
}

// SDKHeaders are what the dashboard front end sends cross origin; apikey and
// x-client-info come from its hosted function SDK
var SDKHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Client-Info", "Apikey", "X-Request-ID"}

// CORSOptions leaves anything empty at the public defaults
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func CORS(o CORSOptions) Func {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, SDKHeaders),
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
