package middleware

import (
	"net/http"
	"slices"
	"time"

	"opendash/internal/platform/logger"
	pnet "opendash/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions tunes AccessLog
type AccessLogOptions struct {
	Slow time.Duration // at or above this a request logs at warn, 0 never
	Skip []string      // exact paths left out, mostly probes
}

// Correlate puts chi's request id on the logging context and echoes it back
// as X-Request-ID; mount it after RequestID
func Correlate() Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := pnet.RequestID(r.Context()); id != "" {
				w.Header().Set("X-Request-ID", id)
				r = r.WithContext(logger.WithRequest(r.Context(), id, ""))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog writes one line per request once the handler returns
// 5xx log at error, slow requests at warn
func AccessLog(opt AccessLogOptions) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(opt.Skip, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			began := time.Now()
			next.ServeHTTP(ww, r)
			took := time.Since(began)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK // handler wrote nothing
			}
			log := logger.C(r.Context())
			ev := log.Info()
			if status >= http.StatusInternalServerError {
				ev = log.Error()
			} else if opt.Slow > 0 && took >= opt.Slow {
				ev = log.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", took).
				Msg("request done")
		})
	}
}
