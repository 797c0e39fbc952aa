package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "opendash/internal/platform/net/http"
	dashdomain "opendash/internal/services/api/dashboard/domain"
	metahttp "opendash/internal/services/api/meta/http"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type cacheView struct{}

func (cacheView) CacheStats() dashdomain.CacheStats {
	return dashdomain.CacheStats{Entries: 4, Fresh: 3, TTL: "5m0s", Keys: []string{"api_call"}}
}

var started = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func get(t *testing.T, d metahttp.Deps, path string, data any) int {
	t.Helper()
	d.Since = started
	d.Clock = func() time.Time { return started.Add(5 * time.Minute) }
	mux := chi.NewRouter()
	metahttp.Register(phttp.AdaptChi(mux), d)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s body %q: %v", path, rec.Body.String(), err)
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("%s data: %v", path, err)
		}
	}
	return rec.Code
}

func TestReady(t *testing.T) {
	cases := []struct {
		name  string
		d     metahttp.Deps
		code  int
		ready bool
		pg    string
		ch    string
	}{
		{"pg only", metahttp.Deps{Postgres: pinger{}}, 200, true, "ok", "off"},
		{"both up", metahttp.Deps{Postgres: pinger{}, ClickHouse: pinger{}}, 200, true, "ok", "ok"},
		{"ch down", metahttp.Deps{Postgres: pinger{}, ClickHouse: pinger{err: errors.New("refused")}}, 503, false, "ok", "fail"},
		{"pg down", metahttp.Deps{Postgres: pinger{err: errors.New("refused")}}, 503, false, "fail", "off"},
		{"no pg", metahttp.Deps{}, 503, false, "fail", "off"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got metahttp.Readiness
			if code := get(t, tc.d, "/ready", &got); code != tc.code {
				t.Fatalf("code got %d want %d", code, tc.code)
			}
			if got.Ready != tc.ready || got.Probes[0].State != tc.pg || got.Probes[1].State != tc.ch {
				t.Fatalf("ready = %+v", got)
			}
		})
	}
}

func TestServiceAndCache(t *testing.T) {
	var svc metahttp.About
	get(t, metahttp.Deps{Service: "opendash-api"}, "/service", &svc)
	if svc.Service != "opendash-api" || svc.UptimeSeconds != 300 {
		t.Fatalf("service = %+v", svc)
	}

	var off metahttp.CacheView
	get(t, metahttp.Deps{}, "/cache", &off)
	if off.Mounted || off.Stats != nil {
		t.Fatalf("cache without port = %+v", off)
	}

	var on metahttp.CacheView
	get(t, metahttp.Deps{Cache: cacheView{}}, "/cache", &on)
	if !on.Mounted || on.Stats.Entries != 4 || on.Stats.Fresh != 3 {
		t.Fatalf("cache = %+v", on)
	}
}
