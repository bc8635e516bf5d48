// Package service records order progress in the journal without ever failing the caller
package service

import (
	"context"

	"eidclient/internal/core/order"
	perr "eidclient/internal/platform/errors"
	"eidclient/internal/platform/logger"
	"eidclient/internal/services/journal/domain"
)

// Service implements domain.Recorder on top of a Repo
// Write failures are logged and dropped
type Service struct {
	repo domain.Repo
}

var _ domain.Recorder = (*Service)(nil)

// New wraps repo
func New(repo domain.Repo) *Service { return &Service{repo: repo} }

func warn(ctx context.Context, err error, what string) {
	logger.C(ctx).Warn().
		Str("component", "journal").
		Str("code", perr.CodeOf(err).String()).
		Err(err).
		Msg(what)
}

// Started implements domain.Recorder
func (s *Service) Started(ctx context.Context, st domain.Start) {
	if err := s.repo.InsertStart(ctx, st); err != nil {
		warn(logger.WithRequest(ctx, st.RequestID, st.OrderRef), err, "journal start not recorded")
	}
}

// Observed implements domain.Recorder
func (s *Service) Observed(ctx context.Context, version int, o order.Outcome) {
	if err := s.repo.RecordOutcome(ctx, version, o); err != nil {
		warn(logger.WithRequest(ctx, "", o.OrderRef), err, "journal outcome not recorded")
	}
}

// Cancelled implements domain.Recorder
func (s *Service) Cancelled(ctx context.Context, orderRef string) {
	if err := s.repo.MarkCancelled(ctx, orderRef); err != nil {
		warn(logger.WithRequest(ctx, "", orderRef), err, "journal cancel not recorded")
	}
}

// Lookup implements domain.Recorder
func (s *Service) Lookup(ctx context.Context, orderRef string) (domain.Entry, error) {
	return s.repo.Get(ctx, orderRef)
}

// Noop is the recorder used when no journal database is configured
type Noop struct{}

var _ domain.Recorder = Noop{}

// Started implements domain.Recorder
func (Noop) Started(context.Context, domain.Start) {}

// Observed implements domain.Recorder
func (Noop) Observed(context.Context, int, order.Outcome) {}

// Cancelled implements domain.Recorder
func (Noop) Cancelled(context.Context, string) {}

// Lookup always reports the journal as unavailable
func (Noop) Lookup(context.Context, string) (domain.Entry, error) {
	return domain.Entry{}, perr.New(perr.ErrorCodeUnavailable, "order journal is disabled")
}
