package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "opendash/internal/platform/net/http"
	"opendash/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack, zero values give the public defaults
type StackOptions struct {
	CORSOrigins []string
	Timeout     time.Duration
	SlowRequest time.Duration
	MaxInFlight int // 0 leaves concurrency unbounded
}

// CommonStack returns the baseline middleware slice every API scope runs behind
// probes live on the root router, see middleware.Heartbeat
func CommonStack(o StackOptions) []middleware.Func {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.SlowRequest <= 0 {
		o.SlowRequest = 2 * time.Second
	}
	stack := []middleware.Func{
		middleware.RequestID,
		middleware.Correlate(),
		middleware.RealIP,
		middleware.RecoverJSON,
		middleware.NoCache,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowRequest, Skip: []string{"/health"}}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
	}
	if o.MaxInFlight > 0 {
		// backlog equal to the limit, queued callers wait at most the request timeout
		stack = append(stack, middleware.Throttle(o.MaxInFlight, o.MaxInFlight, o.Timeout))
	}
	return append(stack,
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes,
		middleware.Timeout(o.Timeout),
	)
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
