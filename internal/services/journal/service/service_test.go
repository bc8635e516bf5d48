package service

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"eidclient/internal/core/order"
	perr "eidclient/internal/platform/errors"
	"eidclient/internal/platform/logger"
	kit "eidclient/internal/platform/testkit"
	"eidclient/internal/services/journal/domain"

	"github.com/rs/zerolog"
)

type fakeRepo struct {
	mu        sync.Mutex
	err       error
	starts    []domain.Start
	outcomes  []order.Outcome
	cancelled []string
}

func (f *fakeRepo) EnsureSchema(context.Context) error { return f.err }

func (f *fakeRepo) InsertStart(_ context.Context, s domain.Start) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, s)
	return f.err
}

func (f *fakeRepo) RecordOutcome(_ context.Context, _ int, o order.Outcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, o)
	return f.err
}

func (f *fakeRepo) MarkCancelled(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, ref)
	return f.err
}

func (f *fakeRepo) Get(_ context.Context, ref string) (domain.Entry, error) {
	if f.err != nil {
		return domain.Entry{}, f.err
	}
	return domain.Entry{OrderRef: ref, Status: order.StatusPending}, nil
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	kit.Serial(t)
	var buf bytes.Buffer
	prev := *logger.Get()
	t.Cleanup(func() { logger.Use(prev) })
	logger.Use(zerolog.New(&buf))
	return &buf
}

func TestService_Forwards(t *testing.T) {
	repo := &fakeRepo{}
	s := New(repo)
	ctx := context.Background()

	s.Started(ctx, domain.Start{OrderRef: "r1", Kind: domain.KindSign, Version: 5})
	s.Observed(ctx, 5, order.Outcome{OrderRef: "r1", Status: order.StatusPending, Hint: order.HintStarted})
	s.Cancelled(ctx, "r1")

	if len(repo.starts) != 1 || len(repo.outcomes) != 1 || len(repo.cancelled) != 1 {
		t.Fatalf("repo calls %+v", repo)
	}
	e, err := s.Lookup(ctx, "r1")
	if err != nil || e.OrderRef != "r1" {
		t.Fatalf("lookup %+v %v", e, err)
	}
}

func TestService_WriteFailuresAreLoggedNotReturned(t *testing.T) {
	buf := captureLogs(t)
	repo := &fakeRepo{err: perr.New(perr.ErrorCodeDB, "connection lost")}
	s := New(repo)
	ctx := context.Background()

	s.Started(ctx, domain.Start{OrderRef: "r1", Kind: domain.KindAuth, RequestID: "req-1"})
	s.Observed(ctx, 4, order.Outcome{OrderRef: "r1", Status: order.StatusFailed, Hint: order.HintUserCancel})
	s.Cancelled(ctx, "r1")

	out := buf.String()
	kit.MustContain(t, out, "journal start not recorded")
	kit.MustContain(t, out, "journal outcome not recorded")
	kit.MustContain(t, out, "journal cancel not recorded")
	kit.MustContain(t, out, `"request_id":"req-1"`)
	kit.MustContain(t, out, `"code":"db"`)

	if _, err := s.Lookup(ctx, "r1"); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("lookup should surface repo errors, got %v", err)
	}
}

func TestNoop(t *testing.T) {
	var r domain.Recorder = Noop{}
	ctx := context.Background()
	r.Started(ctx, domain.Start{OrderRef: "r"})
	r.Observed(ctx, 5, order.Outcome{OrderRef: "r"})
	r.Cancelled(ctx, "r")
	if _, err := r.Lookup(ctx, "r"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
}
