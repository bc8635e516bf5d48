package pg

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	perr "eidclient/internal/platform/errors"
	"eidclient/internal/platform/logger"
	kit "eidclient/internal/platform/testkit"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const dsn = "postgres://u:p@localhost:5432/eid?sslmode=disable"

func TestOpen_ParseError(t *testing.T) {
	_, err := Open(context.Background(), Config{URL: "://bad"}, nil)
	if !perr.IsCode(err, perr.ErrorCodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestOpen_NewPoolError(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})

	if _, err := Open(context.Background(), Config{URL: dsn}, nil); err == nil {
		t.Fatalf("expected newPool error, got nil")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	kit.Serial(t)

	var seen *pgxpool.Config
	kit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = pc
		return &pgxpool.Pool{}, nil
	})

	mutCalled := false
	p, err := Open(context.Background(), Config{URL: dsn, MaxConns: 7, AppName: "eid-journal", Slow: time.Second},
		func(*pgxpool.Config) { mutCalled = true })
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Pool == nil || !mutCalled {
		t.Fatalf("pool=%v mutator=%v", p.Pool, mutCalled)
	}
	if seen.MaxConns != 7 {
		t.Fatalf("MaxConns = %d", seen.MaxConns)
	}
	if seen.ConnConfig.RuntimeParams["application_name"] != "eid-journal" {
		t.Fatalf("application_name not set")
	}
	if _, ok := seen.ConnConfig.Tracer.(*Tracer); !ok {
		t.Fatalf("tracer not installed: %T", seen.ConnConfig.Tracer)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}

func TestTracer_Levels(t *testing.T) {
	kit.Serial(t)
	prev := *logger.Get()
	t.Cleanup(func() { logger.Use(prev) })
	var buf bytes.Buffer
	logger.Use(zerolog.New(&buf).Level(zerolog.DebugLevel))

	clock := time.Unix(0, 0)
	tr := NewTracer(100 * time.Millisecond)
	tr.now = func() time.Time { return clock }

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "select\n\t1"})
	clock = clock.Add(5 * time.Millisecond)
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1")})
	kit.MustContain(t, buf.String(), `"level":"debug"`)
	kit.MustContain(t, buf.String(), `"sql":"select 1"`)

	buf.Reset()
	ctx = tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "select pg_sleep(1)"})
	clock = clock.Add(time.Second)
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	kit.MustContain(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	tr.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	if buf.Len() != 0 {
		t.Fatalf("end without start should not log: %s", buf.String())
	}
}
