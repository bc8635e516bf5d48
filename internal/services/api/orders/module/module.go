// Package module wires orders into the API using modkit
package module

import (
	modkit "eidclient/internal/modkit"
	phttp "eidclient/internal/platform/net/http"
	ordershttp "eidclient/internal/services/api/orders/http"
	orderssvc "eidclient/internal/services/api/orders/service"
)

// Module implements the orders module
type Module struct {
	b   modkit.Built
	svc *orderssvc.Svc
}

var _ modkit.Builder = New

// New constructs the orders module; deps.Orders must be set
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("orders"), modkit.WithPrefix("/orders")}, opts...)...)
	return &Module{b: b, svc: orderssvc.New(deps.Orders, deps.Journal, deps.Endpoint.Version)}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(rr phttp.Router) { ordershttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.b.Prefix }
