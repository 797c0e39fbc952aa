package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opendash/internal/platform/config"
	phttp "opendash/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestNewServer_Config(t *testing.T) {
	t.Setenv("CORE_API_PORT", "8088")
	srv := phttp.NewServer(config.New().Prefix("CORE_API_"))
	if srv.Addr() != ":8088" {
		t.Fatalf("bare port should gain a colon, got %q", srv.Addr())
	}

	t.Setenv("CORE_API_PORT", "127.0.0.1:9000")
	if got := phttp.NewServer(config.New().Prefix("CORE_API_")).Addr(); got != "127.0.0.1:9000" {
		t.Fatalf("Addr = %q", got)
	}

	if got := phttp.NewServer(config.New().Prefix("UNSET_")).Addr(); got != ":4000" {
		t.Fatalf("default Addr = %q", got)
	}
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	t.Setenv("T_PORT", "127.0.0.1:0")
	t.Setenv("T_SHUTDOWN_TIMEOUT", "1s")

	optCalled := false
	srv := phttp.NewServer(config.New().Prefix("T_"), func(*chi.Mux) { optCalled = true })
	if !optCalled {
		t.Fatalf("expected NewServer option to be called")
	}
	r := srv.Router()
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
	if rec.Body.String() != "pong" {
		t.Fatalf("ping = %q", rec.Body.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestServer_ShutdownEndsRun(t *testing.T) {
	t.Setenv("S_PORT", "127.0.0.1:0")
	srv := phttp.NewServer(config.New().Prefix("S_"))

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	sctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v, want nil after Shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Shutdown")
	}
}

func TestServer_RunReturnsListenError(t *testing.T) {
	t.Setenv("B_PORT", "127.0.0.1:abc")
	if err := phttp.NewServer(config.New().Prefix("B_")).Run(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
}
