// Package domain defines the gateway's order DTOs and the port handlers consume
package domain

import (
	"context"

	"eidclient/internal/core/order"
	journal "eidclient/internal/services/journal/domain"
	orders "eidclient/internal/services/orders/domain"
)

// ServicePort is consumed by the orders handlers
type ServicePort interface {
	Sign(ctx context.Context, in orders.SignInput) (Started, error)
	Auth(ctx context.Context, in orders.AuthInput) (Started, error)
	Collect(ctx context.Context, orderRef string) (order.Outcome, error)
	Cancel(ctx context.Context, orderRef string) (Cancelled, error)
	Journal(ctx context.Context, orderRef string) (journal.Entry, error)
}
