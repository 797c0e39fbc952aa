package httpkit

import (
	"errors"
	"net/http/httptest"
	"testing"

	perrs "opendash/internal/platform/errors"
)

func TestPort_Parse(t *testing.T) {
	t.Parallel()

	p := NewPortFunc(func(tok string) (string, string, error) {
		if tok != "good" {
			return "", "", errors.New("nope")
		}
		return "ops", RoleAdmin, nil
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	actor, role, err := p.Parse(req)
	if err != nil || actor != "ops" || role != RoleAdmin {
		t.Fatalf("Parse = %q %q %v", actor, role, err)
	}

	req.Header.Set("Authorization", "Bearer bad")
	if _, _, err := p.Parse(req); perrs.CodeOf(err) != perrs.ErrorCodeUnauthorized {
		t.Fatalf("bad token err = %v", err)
	}

	req.Header.Del("Authorization")
	if _, _, err := p.Parse(req); perrs.CodeOf(err) != perrs.ErrorCodeUnauthorized {
		t.Fatalf("missing header err = %v", err)
	}

	req.Header.Set("Authorization", "Bearer good")
	if _, _, err := NewPortFunc(nil).Parse(req); perrs.CodeOf(err) != perrs.ErrorCodeUnauthorized {
		t.Fatalf("nil parser err = %v", err)
	}
}

func TestStaticTokens(t *testing.T) {
	t.Parallel()

	fn := StaticTokens([]string{"ops:s3cret", " ", "bare-token", "empty:"})

	cases := []struct {
		tok, actor string
		ok         bool
	}{
		{"s3cret", "ops", true},
		{"bare-token", "admin", true},
		{"", "", false},
		{"s3cret ", "", false},
		{"other", "", false},
	}
	for _, c := range cases {
		actor, role, err := fn(c.tok)
		if c.ok && (err != nil || actor != c.actor || role != RoleAdmin) {
			t.Fatalf("%q: got %q %q %v", c.tok, actor, role, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("%q: expected rejection", c.tok)
		}
	}

	if _, _, err := StaticTokens(nil)("anything"); err == nil {
		t.Fatalf("no configured tokens must reject everything")
	}
}
