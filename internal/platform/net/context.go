// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyActor ctxKey = "actor"
	keyRole  ctxKey = "role"
)

// WithRequest stores the request id where chi's GetReqID finds it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithActor annotates context with the authenticated caller and its role
func WithActor(ctx context.Context, actor, role string) context.Context {
	if actor != "" {
		ctx = context.WithValue(ctx, keyActor, actor)
	}
	if role != "" {
		ctx = context.WithValue(ctx, keyRole, role)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// Actor returns the authenticated caller name if present
func Actor(ctx context.Context) string {
	if v, ok := ctx.Value(keyActor).(string); ok {
		return v
	}
	return ""
}

// Role returns the authenticated caller role if present
func Role(ctx context.Context) string {
	if v, ok := ctx.Value(keyRole).(string); ok {
		return v
	}
	return ""
}
