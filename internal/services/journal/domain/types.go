// Package domain defines the order journal: a record of which orders were started and how they ended
//
// The journal never stores personal numbers, user data or signatures
package domain

import (
	"time"

	"eidclient/internal/core/order"
)

// Kind is what started the order
type Kind string

const (
	KindSign    Kind = "sign"
	KindAuth    Kind = "auth"
	KindUnknown Kind = "unknown"
)

// Start is recorded once per started order
type Start struct {
	OrderRef  string
	Kind      Kind
	Version   int
	RequestID string
}

// Entry is one journal row
type Entry struct {
	OrderRef    string       `json:"orderRef"`
	Kind        Kind         `json:"kind"`
	Version     int          `json:"version"`
	Status      order.Status `json:"status"`
	Hint        order.Hint   `json:"hint,omitempty"`
	RawHint     string       `json:"rawHint,omitempty"`
	RequestID   string       `json:"requestId,omitempty"`
	Collects    int          `json:"collects"`
	StartedAt   time.Time    `json:"startedAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	SettledAt   *time.Time   `json:"settledAt,omitempty"`
	CancelledAt *time.Time   `json:"cancelledAt,omitempty"`
}
