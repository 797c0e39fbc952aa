package modkit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"opendash/internal/modkit"
	"opendash/internal/modkit/httpkit"
	phttp "opendash/internal/platform/net/http"
)

func header(k, v string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(k, v)
			next.ServeHTTP(w, r)
		})
	}
}

func TestBuildDefaults(t *testing.T) {
	t.Parallel()
	b := modkit.Build("meta", "/meta")
	if b.Name != "meta" || b.Prefix != "/meta" || b.Ports != nil || len(b.Mw) != 0 || b.Register != nil {
		t.Fatalf("Build() = %+v", b)
	}
	m := modkit.NewBase(modkit.Build("", "meta/"), nil)
	if m.Name() != "module" || m.Prefix() != "/meta" {
		t.Fatalf("fallbacks = %q %q", m.Name(), m.Prefix())
	}
	m.MountRoutes(phttp.AdaptChi(chi.NewRouter())) // nil routes are fine
}

func TestBuildLaterOptionsWin(t *testing.T) {
	t.Parallel()
	b := modkit.Build("dashboard", "/dashboard",
		modkit.WithName("stats"),
		modkit.WithPorts(3),
		modkit.WithMiddlewares(header("X-A", "1")),
		modkit.WithMiddlewares(header("X-B", "2")),
	)
	if b.Name != "stats" || b.Prefix != "/dashboard" || b.Ports != 3 || len(b.Mw) != 2 {
		t.Fatalf("Build = %+v", b)
	}
}

func TestBaseMountsUnderPrefix(t *testing.T) {
	t.Parallel()

	b := modkit.Build("catalog", "catalog/",
		modkit.WithMiddlewares(header("X-Module", "catalog")),
		modkit.WithRegister(func(r httpkit.Router) {
			httpkit.Get(r, "/extra", func(*http.Request) (any, error) { return "extra", nil })
		}),
	)
	m := modkit.NewBase(b, func(r httpkit.Router) {
		httpkit.Get(r, "/datasets", func(*http.Request) (any, error) { return []int{1}, nil })
	})
	if m.Name() != "catalog" || m.Prefix() != "/catalog" {
		t.Fatalf("Name/Prefix = %q %q", m.Name(), m.Prefix())
	}

	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)

	for _, path := range []string{"/catalog/datasets", "/catalog/extra"} {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
		if rec.Header().Get("X-Module") != "catalog" {
			t.Fatalf("%s missing module middleware", path)
		}
	}
}

func TestDepsClock(t *testing.T) {
	t.Parallel()
	if (modkit.Deps{}).Clock() == nil {
		t.Fatal("nil clock")
	}
	var d modkit.Deps
	if d.HasCH() {
		t.Fatal("zero Deps reports clickhouse")
	}
}
