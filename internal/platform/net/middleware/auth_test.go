package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"opendash/internal/platform/net"
	"opendash/internal/platform/net/middleware"
)

type fakeAuthPort struct {
	actor string
	role  string
	err   error
}

func (f fakeAuthPort) Parse(r *http.Request) (string, string, error) {
	return f.actor, f.role, f.err
}

func writeStub(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
}

func TestAuth_NilPortPassesThrough(t *testing.T) {
	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(200)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	middleware.Auth(nil, writeStub)(next).ServeHTTP(rr, req)

	if !nextCalled || rr.Code != 200 {
		t.Fatalf("next called = %v, code = %d", nextCalled, rr.Code)
	}
}

func TestAuth_ErrorFromPortWritesMappedError(t *testing.T) {
	mw := middleware.Auth(fakeAuthPort{err: http.ErrNoCookie}, writeStub)

	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { nextCalled = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if nextCalled {
		t.Fatal("did not expect next to be called on auth error")
	}
	if rr.Code < 400 {
		t.Fatalf("expected error status got %d", rr.Code)
	}
}

func TestAuth_SetsActorAndRole(t *testing.T) {
	mw := middleware.Auth(fakeAuthPort{actor: "ops", role: "admin"}, writeStub)

	var actor, role string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, role = net.Actor(r.Context()), net.Role(r.Context())
		w.WriteHeader(200)
	})

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != 200 || actor != "ops" || role != "admin" {
		t.Fatalf("code=%d actor=%q role=%q", rr.Code, actor, role)
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(204) })
	chain := middleware.Auth(fakeAuthPort{actor: "viewer", role: "reader"}, writeStub)(
		middleware.RequireRole("admin", writeStub)(next),
	)

	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rr.Code)
	}

	chain = middleware.Auth(fakeAuthPort{actor: "ops", role: "admin"}, writeStub)(
		middleware.RequireRole("admin", writeStub)(next),
	)
	rr = httptest.NewRecorder()
	chain.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != 204 {
		t.Fatalf("code = %d, want 204", rr.Code)
	}
}
