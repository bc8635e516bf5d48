package domain

import (
	"context"

	"eidclient/internal/core/order"
)

// Repo persists journal rows
type Repo interface {
	EnsureSchema(ctx context.Context) error
	InsertStart(ctx context.Context, s Start) error
	RecordOutcome(ctx context.Context, version int, o order.Outcome) error
	MarkCancelled(ctx context.Context, orderRef string) error
	Get(ctx context.Context, orderRef string) (Entry, error)
}

// Recorder is what the gateway talks to
// Writes never fail from the caller's point of view; lookups do
type Recorder interface {
	Started(ctx context.Context, s Start)
	Observed(ctx context.Context, version int, o order.Outcome)
	Cancelled(ctx context.Context, orderRef string)
	Lookup(ctx context.Context, orderRef string) (Entry, error)
}
