package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "opendash/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func newRouter() Router { return phttp.AdaptChi(chi.NewRouter()) }

func serve(r Router, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req)
	return rec
}

type yearQuery struct {
	Year int `query:"year" validate:"omitempty,min=2020,max=2024"`
}

func TestMountAPI_AndHelpers(t *testing.T) {
	t.Parallel()

	r := newRouter()
	MountAPI(r, "/v1/", CommonStack(StackOptions{}), func(api Router) {
		MountUnder(api, "/dashboard", nil, func(d Router) {
			Get(d, "/overview", func(*http.Request) (any, error) { return map[string]int{"total": 3}, nil })
			GetQuery(d, "/trends", func(_ *http.Request, q yearQuery) (any, error) { return q.Year, nil })
			Post(d, "/touch", func(*http.Request) (any, error) { return Response{Status: http.StatusNoContent}, nil })
			d.Get("/raw", Handle(func(*http.Request) Response { return Raw(http.StatusAccepted, []int{1}) }))
		})
	})

	rec := serve(r, "GET", "/api/v1/dashboard/overview", "")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"total":3`) {
		t.Fatalf("overview => %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("common stack should echo X-Request-ID")
	}

	rec = serve(r, "GET", "/api/v1/dashboard/trends?year=2023", "")
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Data != float64(2023) {
		t.Fatalf("trends => %q (%v)", rec.Body.String(), err)
	}
	if rec = serve(r, "GET", "/api/v1/dashboard/trends?year=1999", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range year => %d", rec.Code)
	}
	if rec = serve(r, "POST", "/api/v1/dashboard/touch", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("touch => %d", rec.Code)
	}
	if rec = serve(r, "GET", "/api/v1/dashboard/raw", ""); rec.Code != http.StatusAccepted || strings.TrimSpace(rec.Body.String()) != "[1]" {
		t.Fatalf("raw => %d %q", rec.Code, rec.Body.String())
	}
	if rec = serve(r, "GET", "/api/v1/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route => %d", rec.Code)
	}
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	r := newRouter()
	port := NewPortFunc(StaticTokens([]string{"ops:s3cret"}))
	AdminOnly(r, port, func(ar Router) {
		Post(ar, "/purge", func(req *http.Request) (any, error) {
			actor, err := Actor(req)
			return map[string]string{"by": actor}, err
		})
	})
	AdminOnly(r, nil, func(ar Router) {
		Post(ar, "/locked", func(*http.Request) (any, error) { return "open", nil })
	})

	if rec := serve(r, "POST", "/purge", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token => %d", rec.Code)
	}
	if rec := serve(r, "POST", "/purge", "Bearer wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token => %d", rec.Code)
	}
	rec := serve(r, "POST", "/purge", "Bearer s3cret")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"by":"ops"`) {
		t.Fatalf("admin => %d %q", rec.Code, rec.Body.String())
	}
	if rec := serve(r, "POST", "/locked", "Bearer s3cret"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("nil port must deny => %d", rec.Code)
	}
}

type readerPort struct{}

func (readerPort) Parse(*http.Request) (string, string, error) { return "viewer", "reader", nil }

func TestProtectedVersusAdminOnly(t *testing.T) {
	t.Parallel()

	r := newRouter()
	Protected(r, readerPort{}, func(pr Router) {
		Get(pr, "/me", func(req *http.Request) (any, error) { return Actor(req) })
	})
	AdminOnly(r, readerPort{}, func(ar Router) {
		Post(ar, "/purge", func(*http.Request) (any, error) { return nil, nil })
	})

	if rec := serve(r, "GET", "/me", ""); rec.Code != 200 || !strings.Contains(rec.Body.String(), "viewer") {
		t.Fatalf("/me => %d %q", rec.Code, rec.Body.String())
	}
	if rec := serve(r, "POST", "/purge", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin purge => %d", rec.Code)
	}
}
