// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "eidclient/internal/modkit"
	phttp "eidclient/internal/platform/net/http"

	metahttp "eidclient/internal/services/api/meta/http"
)

// ServiceName is what the gateway calls itself in meta payloads
const ServiceName = "eid-api"

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

var _ modkit.Builder = New

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	started := deps.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	d := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   started,
		Protocol:    deps.Endpoint.Version,
		Endpoint:    deps.Endpoint.Raw,
	}
	// a disabled store has no pool to ping
	if deps.Store != nil && deps.Store.PG != nil {
		d.Store = deps.Store
	}
	return &Module{b: b, deps: d}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(rr phttp.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return m.b.Prefix }
