package domain

import (
	"encoding/json"

	"eidclient/internal/core/order"
)

// Started is returned by the sign and auth routes
type Started struct {
	order.Order
	Protocol int `json:"protocol"`
}

// Cancelled echoes the remote service's cancel answer
type Cancelled struct {
	OrderRef string          `json:"orderRef"`
	Remote   json.RawMessage `json:"remote"`
}
