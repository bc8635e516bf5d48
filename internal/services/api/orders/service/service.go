// Package service contains the gateway's order workflows
// Every call goes to the order client first; the journal only ever observes
package service

import (
	"context"

	"eidclient/internal/core/order"
	"eidclient/internal/platform/logger"
	pnet "eidclient/internal/platform/net"
	"eidclient/internal/services/api/orders/domain"
	journal "eidclient/internal/services/journal/domain"
	jsvc "eidclient/internal/services/journal/service"
	orders "eidclient/internal/services/orders/domain"
)

// Svc implements domain.ServicePort
type Svc struct {
	orders   orders.OrderPort
	journal  journal.Recorder
	protocol int
}

var _ domain.ServicePort = (*Svc)(nil)

// New constructs the service; a nil recorder disables journaling
func New(o orders.OrderPort, rec journal.Recorder, protocol int) *Svc {
	if o == nil {
		panic("orders.Service requires a non nil OrderPort")
	}
	if rec == nil {
		rec = jsvc.Noop{}
	}
	return &Svc{orders: o, journal: rec, protocol: protocol}
}

func scoped(ctx context.Context, orderRef string) context.Context {
	return logger.WithRequest(ctx, pnet.RequestID(ctx), orderRef)
}

func (s *Svc) started(ctx context.Context, o order.Order, kind journal.Kind) domain.Started {
	ctx = scoped(ctx, o.OrderRef)
	s.journal.Started(ctx, journal.Start{
		OrderRef:  o.OrderRef,
		Kind:      kind,
		Version:   s.protocol,
		RequestID: pnet.RequestID(ctx),
	})
	logger.C(ctx).Info().Str("kind", string(kind)).Int("protocol", s.protocol).Msg("order started")
	return domain.Started{Order: o, Protocol: s.protocol}
}

// Sign starts a signing order
func (s *Svc) Sign(ctx context.Context, in orders.SignInput) (domain.Started, error) {
	o, err := s.orders.StartSign(ctx, in)
	if err != nil {
		return domain.Started{}, err
	}
	return s.started(ctx, o, journal.KindSign), nil
}

// Auth starts an authentication order
func (s *Svc) Auth(ctx context.Context, in orders.AuthInput) (domain.Started, error) {
	o, err := s.orders.StartAuth(ctx, in)
	if err != nil {
		return domain.Started{}, err
	}
	return s.started(ctx, o, journal.KindAuth), nil
}

// Collect asks for the order's current state once
func (s *Svc) Collect(ctx context.Context, orderRef string) (order.Outcome, error) {
	ctx = scoped(ctx, orderRef)
	out, err := s.orders.Collect(ctx, orderRef)
	if err != nil {
		return order.Outcome{}, err
	}
	s.journal.Observed(ctx, s.protocol, out)
	if out.Terminal() {
		logger.C(ctx).Info().Str("status", string(out.Status)).Str("hint", string(out.Hint)).Msg("order settled")
	}
	return out, nil
}

// Cancel forwards a cancel and journals it only when the remote service accepted it
func (s *Svc) Cancel(ctx context.Context, orderRef string) (domain.Cancelled, error) {
	ctx = scoped(ctx, orderRef)
	raw, err := s.orders.Cancel(ctx, orderRef)
	if err != nil {
		return domain.Cancelled{}, err
	}
	s.journal.Cancelled(ctx, orderRef)
	return domain.Cancelled{OrderRef: orderRef, Remote: raw}, nil
}

// Journal returns the recorded history of an order
func (s *Svc) Journal(ctx context.Context, orderRef string) (journal.Entry, error) {
	return s.journal.Lookup(scoped(ctx, orderRef), orderRef)
}
