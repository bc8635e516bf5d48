// Package repo provides Postgres bindings for domain.Repo
package repo

import (
	"context"
	"errors"

	"eidclient/internal/core/order"
	perr "eidclient/internal/platform/errors"
	"eidclient/internal/platform/store"
	"eidclient/internal/services/journal/domain"

	"github.com/jackc/pgx/v5"
)

type queries struct{ q store.RowQuerier }

// Compile-time assertion: queries implements domain.Repo
var _ domain.Repo = (*queries)(nil)

// NewPG binds the journal repo to q
func NewPG(q store.RowQuerier) domain.Repo {
	if q == nil {
		panic("journal repo: nil RowQuerier")
	}
	return &queries{q: q}
}

const schema = `
CREATE TABLE IF NOT EXISTS eid_orders (
	order_ref     text        PRIMARY KEY,
	kind          text        NOT NULL CHECK (kind IN ('sign', 'auth', 'unknown')),
	version       smallint    NOT NULL,
	status        text        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'failed', 'complete')),
	hint          text        NOT NULL DEFAULT '',
	raw_hint      text        NOT NULL DEFAULT '',
	request_id    text        NOT NULL DEFAULT '',
	collects      integer     NOT NULL DEFAULT 0,
	started_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz NOT NULL DEFAULT now(),
	settled_at    timestamptz,
	cancelled_at  timestamptz
);
CREATE INDEX IF NOT EXISTS eid_orders_open_idx ON eid_orders (updated_at) WHERE settled_at IS NULL;
`

// EnsureSchema creates the journal table when missing
func (r *queries) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schema); err != nil {
		return perr.FromPostgresf(err, "journal: ensure schema")
	}
	return nil
}

// InsertStart records a started order; a repeated ref is ignored
func (r *queries) InsertStart(ctx context.Context, s domain.Start) error {
	kind := s.Kind
	if kind == "" {
		kind = domain.KindUnknown
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO eid_orders (order_ref, kind, version, request_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_ref) DO NOTHING`,
		s.OrderRef, string(kind), s.Version, s.RequestID)
	if err != nil {
		return perr.FromPostgresf(err, "journal: insert start")
	}
	return nil
}

// RecordOutcome stores the latest observed outcome and counts the collect
// Orders started elsewhere are adopted with kind unknown. A settled row is never reopened
func (r *queries) RecordOutcome(ctx context.Context, version int, o order.Outcome) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO eid_orders AS e (order_ref, kind, version, status, hint, raw_hint, collects, settled_at)
		VALUES ($1, 'unknown', $2, $3, $4, $5, 1, CASE WHEN $6 THEN now() END)
		ON CONFLICT (order_ref) DO UPDATE SET
			status     = CASE WHEN e.settled_at IS NULL THEN EXCLUDED.status   ELSE e.status   END,
			hint       = CASE WHEN e.settled_at IS NULL THEN EXCLUDED.hint     ELSE e.hint     END,
			raw_hint   = CASE WHEN e.settled_at IS NULL THEN EXCLUDED.raw_hint ELSE e.raw_hint END,
			settled_at = COALESCE(e.settled_at, EXCLUDED.settled_at),
			collects   = e.collects + 1,
			updated_at = now()`,
		o.OrderRef, version, string(o.Status), string(o.Hint), o.RawHint, o.Terminal())
	if err != nil {
		return perr.FromPostgresf(err, "journal: record outcome")
	}
	return nil
}

// MarkCancelled stamps the cancel time once
func (r *queries) MarkCancelled(ctx context.Context, orderRef string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE eid_orders
		SET cancelled_at = COALESCE(cancelled_at, now()), updated_at = now()
		WHERE order_ref = $1`, orderRef)
	if err != nil {
		return perr.FromPostgresf(err, "journal: mark cancelled")
	}
	return nil
}

// Get loads one row
func (r *queries) Get(ctx context.Context, orderRef string) (domain.Entry, error) {
	var (
		e                       domain.Entry
		kind, status, hint, raw string
	)
	err := r.q.QueryRow(ctx, `
		SELECT order_ref, kind, version, status, hint, raw_hint, request_id, collects,
		       started_at, updated_at, settled_at, cancelled_at
		FROM eid_orders WHERE order_ref = $1`, orderRef).
		Scan(&e.OrderRef, &kind, &e.Version, &status, &hint, &raw, &e.RequestID, &e.Collects,
			&e.StartedAt, &e.UpdatedAt, &e.SettledAt, &e.CancelledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Entry{}, perr.NotFoundf("no journal entry for order %s", orderRef)
	}
	if err != nil {
		return domain.Entry{}, perr.FromPostgresf(err, "journal: get")
	}
	e.Kind, e.Status, e.Hint, e.RawHint = domain.Kind(kind), order.Status(status), order.Hint(hint), raw
	return e, nil
}
