package service

import (
	"context"
	"encoding/json"
	"testing"

	"eidclient/internal/core/order"
	perr "eidclient/internal/platform/errors"
	pnet "eidclient/internal/platform/net"
	"eidclient/internal/platform/testkit"
	journal "eidclient/internal/services/journal/domain"
	orders "eidclient/internal/services/orders/domain"
)

type stubOrders struct {
	out order.Outcome
	err error
}

func (s stubOrders) StartSign(context.Context, orders.SignInput) (order.Order, error) {
	return order.Order{OrderRef: "ref-1"}, s.err
}

func (s stubOrders) StartAuth(context.Context, orders.AuthInput) (order.Order, error) {
	return order.Order{OrderRef: "ref-2"}, s.err
}

func (s stubOrders) Collect(context.Context, string) (order.Outcome, error) { return s.out, s.err }

func (s stubOrders) Cancel(context.Context, string) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(`{}`), nil
}

type recJournal struct {
	starts    []journal.Start
	observed  int
	cancelled int
}

func (r *recJournal) Started(_ context.Context, s journal.Start) { r.starts = append(r.starts, s) }

func (r *recJournal) Observed(context.Context, int, order.Outcome) { r.observed++ }

func (r *recJournal) Cancelled(context.Context, string) { r.cancelled++ }

func (r *recJournal) Lookup(_ context.Context, ref string) (journal.Entry, error) {
	return journal.Entry{OrderRef: ref}, nil
}

func TestNew_PanicsWithoutOrders(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, nil, 5) })
}

func TestSignAndAuth_JournalStart(t *testing.T) {
	j := &recJournal{}
	s := New(stubOrders{}, j, 5)
	ctx := pnet.WithRequest(context.Background(), "req-9", "")

	st, err := s.Sign(ctx, orders.SignInput{UserVisibleData: "x"})
	if err != nil || st.OrderRef != "ref-1" || st.Protocol != 5 {
		t.Fatalf("sign = %+v, %v", st, err)
	}
	if _, err := s.Auth(ctx, orders.AuthInput{}); err != nil {
		t.Fatalf("auth: %v", err)
	}
	if len(j.starts) != 2 {
		t.Fatalf("want 2 starts, got %d", len(j.starts))
	}
	if j.starts[0].Kind != journal.KindSign || j.starts[1].Kind != journal.KindAuth {
		t.Fatalf("kinds = %s %s", j.starts[0].Kind, j.starts[1].Kind)
	}
	if j.starts[0].RequestID != "req-9" || j.starts[0].Version != 5 {
		t.Fatalf("start = %+v", j.starts[0])
	}
}

func TestFailuresAreNotJournaled(t *testing.T) {
	j := &recJournal{}
	s := New(stubOrders{err: perr.Transportf("down")}, j, 5)
	ctx := context.Background()

	if _, err := s.Sign(ctx, orders.SignInput{}); !perr.IsCode(err, perr.ErrorCodeTransport) {
		t.Fatalf("sign err = %v", err)
	}
	if _, err := s.Collect(ctx, "ref"); err == nil {
		t.Fatalf("collect should fail")
	}
	if _, err := s.Cancel(ctx, "ref"); err == nil {
		t.Fatalf("cancel should fail")
	}
	if len(j.starts) != 0 || j.observed != 0 || j.cancelled != 0 {
		t.Fatalf("journal touched on failure: %+v", j)
	}
}

func TestCollectAndCancel_Journal(t *testing.T) {
	j := &recJournal{}
	s := New(stubOrders{out: order.Outcome{OrderRef: "ref", Status: order.StatusComplete}}, j, 4)
	ctx := context.Background()

	out, err := s.Collect(ctx, "ref")
	if err != nil || out.Status != order.StatusComplete {
		t.Fatalf("collect = %+v, %v", out, err)
	}
	c, err := s.Cancel(ctx, "ref")
	if err != nil || c.OrderRef != "ref" || string(c.Remote) != `{}` {
		t.Fatalf("cancel = %+v, %v", c, err)
	}
	if j.observed != 1 || j.cancelled != 1 {
		t.Fatalf("observed=%d cancelled=%d", j.observed, j.cancelled)
	}
	e, err := s.Journal(ctx, "ref")
	if err != nil || e.OrderRef != "ref" {
		t.Fatalf("journal = %+v, %v", e, err)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	s := New(stubOrders{}, nil, 5)
	if _, err := s.Sign(context.Background(), orders.SignInput{}); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Journal(context.Background(), "ref"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("journal err = %v", err)
	}
}
