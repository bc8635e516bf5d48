package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "eidclient/internal/platform/errors"
)

// fakeTxNoPing satisfies TxRunner but not Pinger
type fakeTxNoPing struct{}

func (f *fakeTxNoPing) Tx(ctx context.Context, fn func(q RowQuerier) error) error { return nil }
func (f *fakeTxNoPing) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	var z CommandTag
	return z, nil
}

func (f *fakeTxNoPing) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	var z Rows
	return z, nil
}

func (f *fakeTxNoPing) QueryRow(ctx context.Context, sql string, args ...any) Row {
	var z Row
	return z
}

// fakeTxWithPing satisfies TxRunner and Pinger
type fakeTxWithPing struct {
	fakeTxNoPing
	err error
}

func (f *fakeTxWithPing) Ping(context.Context) error { return f.err }

func TestGuard_NilStore(t *testing.T) {
	t.Parallel()

	var s *Store = nil
	if err := s.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should return error")
	}
}

func TestGuard_NoSeams(t *testing.T) {
	t.Parallel()

	s := &Store{}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("expected nil error when no seams are set, got %v", err)
	}
}

func TestGuard_PG_NotPinger_Ignored(t *testing.T) {
	t.Parallel()

	s := &Store{PG: &fakeTxNoPing{}}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("expected nil error when PG is not a Pinger, got %v", err)
	}
}

func TestGuard_PG_PingOK(t *testing.T) {
	t.Parallel()

	s := &Store{PG: &fakeTxWithPing{err: nil}}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("expected nil error when PG.Ping succeeds, got %v", err)
	}
}

func TestGuard_PG_PingError_Wrapped(t *testing.T) {
	t.Parallel()

	s := &Store{PG: &fakeTxWithPing{err: errors.New("boom")}}
	err := s.Guard(context.Background())
	if err == nil {
		t.Fatalf("expected non-nil error when PG.Ping fails")
	}
	// Guard prefixes PG errors with "pg: "
	if !strings.HasPrefix(err.Error(), "pg: ") {
		t.Fatalf("expected error to be prefixed with 'pg: ', got %q", err.Error())
	}
}

func TestOpen_Disabled(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.PG != nil {
		t.Fatalf("pg should stay nil without a url")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpen_BadURL(t *testing.T) {
	_, err := Open(context.Background(), Config{PG: PGConfig{URL: "://nope"}})
	if !perr.IsCode(err, perr.ErrorCodeConfiguration) {
		t.Fatalf("want configuration error, got %v", err)
	}
}

type flakyPinger struct {
	fails int
	calls int
}

func (f *flakyPinger) Ping(context.Context) error {
	f.calls++
	if f.calls <= f.fails {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitReady_RetriesUntilUp(t *testing.T) {
	p := &flakyPinger{fails: 2}
	if err := waitReady(context.Background(), p, PGConfig{ConnectFor: 5 * time.Second}); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if p.calls != 3 {
		t.Fatalf("want 3 pings, got %d", p.calls)
	}
}

func TestWaitReady_GivesUp(t *testing.T) {
	p := &flakyPinger{fails: 1 << 30}
	err := waitReady(context.Background(), p, PGConfig{ConnectFor: 300 * time.Millisecond})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if p.calls < 2 {
		t.Fatalf("expected retries, got %d pings", p.calls)
	}
}

type closingTx struct {
	fakeTxNoPing
	closed bool
}

func (c *closingTx) Close() error { c.closed = true; return nil }

func TestClose(t *testing.T) {
	var nilStore *Store
	if err := nilStore.Close(); err != nil {
		t.Fatalf("nil store close: %v", err)
	}
	c := &closingTx{}
	if err := (&Store{PG: c}).Close(); err != nil || !c.closed {
		t.Fatalf("close not forwarded: %v %v", err, c.closed)
	}
}
