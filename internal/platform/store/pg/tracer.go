package pg

import (
	"context"
	"strings"
	"time"

	"eidclient/internal/platform/logger"

	"github.com/jackc/pgx/v5"
)

type traceKey struct{}

type traceStart struct {
	sql string
	at  time.Time
}

// Tracer logs every query at debug and slow or failed ones at warn
// It implements pgx.QueryTracer
type Tracer struct {
	slow time.Duration
	now  func() time.Time
}

// NewTracer returns a Tracer that warns at or above slow
func NewTracer(slow time.Duration) *Tracer { return &Tracer{slow: slow, now: time.Now} }

// TraceQueryStart stashes the statement and start time on ctx
func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: data.SQL, at: t.now()})
}

// TraceQueryEnd logs the finished query
func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(st.at)
	log := logger.C(ctx).With().Str("component", "pg").Logger()

	evt := log.Debug()
	if data.Err != nil || (t.slow > 0 && elapsed >= t.slow) {
		evt = log.Warn()
	}
	evt.Dur("elapsed", elapsed).
		Str("sql", compact(st.sql)).
		Str("tag", data.CommandTag.String()).
		Err(data.Err).
		Msg("pg query")
}

// compact folds runs of whitespace into one space
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
