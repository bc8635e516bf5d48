package modkit

import (
	"time"

	"eidclient/internal/core/endpoint"
	"eidclient/internal/platform/config"
	"eidclient/internal/platform/store"
	journal "eidclient/internal/services/journal/domain"
	orders "eidclient/internal/services/orders/domain"
)

// Deps holds the shared dependencies handed to every module
// Store and Journal may be zero when the journal is disabled
type Deps struct {
	Cfg       config.Conf
	Store     *store.Store
	Orders    orders.OrderPort
	Endpoint  endpoint.Descriptor
	Journal   journal.Recorder
	StartedAt time.Time
}
