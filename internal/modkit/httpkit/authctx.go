package httpkit

import (
	"net/http"
	"strings"

	perrs "opendash/internal/platform/errors"
	pnet "opendash/internal/platform/net"
)

// Actor returns the authenticated caller name from the request context
func Actor(r *http.Request) (string, error) {
	a := pnet.Actor(r.Context())
	if a == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return a, nil
}

// BearerToken returns the raw token from the Authorization header
// the scheme match is case-insensitive
func BearerToken(r *http.Request) (string, error) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer"
	if len(s) <= len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	// the scheme must be followed by whitespace
	rest := s[len(prefix):]
	if rest[0] != ' ' && rest[0] != '\t' {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(rest)
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}
