package domain

import (
	"context"
	"encoding/json"

	"eidclient/internal/core/normalize"
	"eidclient/internal/core/order"
)

// Adapter is the capability set one protocol generation implements
// Collect returns the generation's raw answer; Cancel may fail with an unsupported error
type Adapter interface {
	Sign(ctx context.Context, r order.SignRequest) (order.Order, error)
	Auth(ctx context.Context, r order.AuthRequest) (order.Order, error)
	Collect(ctx context.Context, orderRef string) (normalize.Raw, error)
	Cancel(ctx context.Context, orderRef string) (json.RawMessage, error)
}

// OrderPort is the caller-facing surface of the order client
type OrderPort interface {
	StartSign(ctx context.Context, in SignInput) (order.Order, error)
	StartAuth(ctx context.Context, in AuthInput) (order.Order, error)
	Collect(ctx context.Context, orderRef string) (order.Outcome, error)
	Cancel(ctx context.Context, orderRef string) (json.RawMessage, error)
}
