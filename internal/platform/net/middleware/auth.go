package middleware

import (
	"net/http"

	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
	pnet "opendash/internal/platform/net"
)

// AuthPort resolves the caller behind a request
type AuthPort interface {
	// Parse returns the caller name and its role or an error
	Parse(r *http.Request) (actor string, role string, err error)
}

// Auth rejects requests the port cannot resolve and stores the caller on context
// a nil port lets everything through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			actor, role, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Failure(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithActor(r.Context(), actor, role)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole answers 403 unless Auth stored the given role
func RequireRole(role string, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if pnet.Role(r.Context()) != role {
				status, body := pnet.Failure(perr.Forbiddenf("role %q required", role), pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
