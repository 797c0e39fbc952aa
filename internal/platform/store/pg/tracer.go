package pg

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"opendash/internal/platform/logger"
)

// QueryEvent describes one statement as seen by the adapter
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives one event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// maxLoggedArgs caps how many bind args are echoed; seed inserts can carry hundreds
const maxLoggedArgs = 16

// Tracer logs every statement, independent of the root level, once LogSQL is on
// Slow statements are logged at warn
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if id := logger.RequestID(ctx); id != "" {
		evt = evt.Str("request_id", id)
	}
	if args, ok := ev.Args.([]any); ok && len(args) > maxLoggedArgs {
		evt = evt.Int("arg_count", len(args)).Interface("args", args[:maxLoggedArgs])
	} else {
		evt = evt.Interface("args", ev.Args)
	}

	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds every whitespace run to one space and trims the ends
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
