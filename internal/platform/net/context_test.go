package net_test

import (
	"context"
	"testing"

	pnet "opendash/internal/platform/net"
)

func TestWithRequest(t *testing.T) {
	base := context.Background()

	ctx := pnet.WithRequest(base, "req-123")
	if got := pnet.RequestID(ctx); got != "req-123" {
		t.Fatalf("RequestID got %q want %q", got, "req-123")
	}

	if pnet.WithRequest(base, "") != base {
		t.Fatalf("expected ctx to be unchanged for an empty id")
	}
	if got := pnet.RequestID(base); got != "" {
		t.Fatalf("RequestID got %q want empty", got)
	}
}

func TestWithActor(t *testing.T) {
	base := context.Background()

	t.Run("sets both", func(t *testing.T) {
		ctx := pnet.WithActor(base, "ops", "admin")
		if got := pnet.Actor(ctx); got != "ops" {
			t.Fatalf("Actor got %q want ops", got)
		}
		if got := pnet.Role(ctx); got != "admin" {
			t.Fatalf("Role got %q want admin", got)
		}
	})

	t.Run("actor only", func(t *testing.T) {
		ctx := pnet.WithActor(base, "viewer", "")
		if got := pnet.Role(ctx); got != "" {
			t.Fatalf("Role got %q want empty", got)
		}
	})

	t.Run("nothing set", func(t *testing.T) {
		if pnet.WithActor(base, "", "") != base {
			t.Fatalf("expected ctx to be unchanged")
		}
		if pnet.Actor(base) != "" || pnet.Role(base) != "" {
			t.Fatalf("expected empty getters")
		}
	})
}
