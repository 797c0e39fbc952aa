// Package logger owns the process-wide zerolog root and the request-scoped
// children derived from it
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logging type handed around the codebase
type Logger = zerolog.Logger

// Options controls how the root logger is built
type Options struct {
	Level     string
	Format    string // console or json
	Service   string
	Component string
	Caller    bool
	Sample    int
	Fields    map[string]string
	Writer    io.Writer
}

// FromEnv reads LOG_* directly; config depends on logger so it cannot be used here
func FromEnv() Options {
	env := func(k, def string) string {
		if v, ok := os.LookupEnv("LOG_" + k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}
	caller, _ := strconv.ParseBool(env("CALLER", "false"))
	sample, _ := strconv.Atoi(env("SAMPLE_EVERY", "0"))
	return Options{
		Level:     strings.ToLower(env("LEVEL", "debug")),
		Format:    strings.ToLower(env("FORMAT", "console")),
		Service:   env("SERVICE", ""),
		Component: env("COMPONENT", ""),
		Caller:    caller,
		Sample:    sample,
	}
}

var (
	mu   sync.RWMutex
	root *zerolog.Logger
)

// Init builds the root logger; only the first call has an effect
func Init(opt Options) {
	mu.Lock()
	defer mu.Unlock()
	if root != nil {
		return
	}
	l := build(opt)
	root = &l
}

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return root
}

func build(opt Options) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	b := zerolog.New(out).Level(level(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		b = b.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		b = b.Str("service", opt.Service)
	}
	if opt.Component != "" {
		b = b.Str("component", opt.Component)
	}
	for k, v := range opt.Fields {
		b = b.Str(k, v)
	}
	if opt.Caller {
		b = b.Caller()
	}

	l := b.Logger()
	if opt.Sample > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.Sample)})
	}
	return l
}

// level falls back to debug for empty or unknown names
func level(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey int

const (
	reqKey ctxKey = iota
	actorKey
)

// WithRequest stores the request id and actor on ctx, empty values are skipped
func WithRequest(ctx context.Context, reqID, actor string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, reqKey, reqID)
	}
	if actor != "" {
		ctx = context.WithValue(ctx, actorKey, actor)
	}
	return ctx
}

// RequestID reads back the id stored by WithRequest
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(reqKey).(string)
	return id
}

// C derives a logger carrying request_id and actor from ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	if id := RequestID(ctx); id != "" {
		b = b.Str("request_id", id)
	}
	if a, _ := ctx.Value(actorKey).(string); a != "" {
		b = b.Str("actor", a)
	}
	l := b.Logger()
	return &l
}

// Named tags the root logger with a component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
