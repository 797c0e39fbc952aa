package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perrs "opendash/internal/platform/errors"
)

// RoleAdmin is the only elevated role, the binary user/admin flag
const RoleAdmin = "admin"

// TokenFunc resolves a bearer token into a caller name and role
type TokenFunc func(token string) (actor string, role string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse extracts the caller from the Authorization Bearer token
// any failure surfaces as unauthorized so token details never leak
func (p *Port) Parse(r *http.Request) (string, string, error) {
	raw, err := BearerToken(r)
	if err != nil {
		return "", "", err
	}
	if p == nil || p.parse == nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	actor, role, err := p.parse(raw)
	if err != nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	return actor, role, nil
}

// StaticTokens resolves tokens from entries of the form name:token, each granting RoleAdmin
// entries without a name use "admin" as the caller name
func StaticTokens(entries []string) TokenFunc {
	type cred struct{ name, token string }
	var creds []cred
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		name, tok, ok := strings.Cut(e, ":")
		if !ok {
			name, tok = RoleAdmin, e
		}
		if tok = strings.TrimSpace(tok); tok != "" {
			creds = append(creds, cred{name: strings.TrimSpace(name), token: tok})
		}
	}
	return func(token string) (string, string, error) {
		var match string
		// walk every entry so timing does not reveal which one matched
		for _, c := range creds {
			if subtle.ConstantTimeCompare([]byte(c.token), []byte(token)) == 1 {
				match = c.name
			}
		}
		if match == "" {
			return "", "", perrs.Unauthorizedf("unknown token")
		}
		return match, RoleAdmin, nil
	}
}
