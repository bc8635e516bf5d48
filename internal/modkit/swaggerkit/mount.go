// Package swaggerkit serves the gateway's OpenAPI document and the swagger UI
package swaggerkit

import (
	modkit "eidclient/internal/modkit"
	phttp "eidclient/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Module mounts /docs under the API version it is given
type Module struct {
	b    modkit.Built
	base string
}

// New returns the docs module; base is the mount point of the API, e.g. "/v1"
func New(base string, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("docs"),
		modkit.WithPrefix("/docs"),
	}, opts...)...)
	return &Module{b: b, base: base}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(rr phttp.Router) {
		rr.Get("/doc.json", serveDocJSON(m.base))
		// the UI page sits next to doc.json, so a relative URL resolves
		rr.Handle("/*", httpSwagger.Handler(httpSwagger.URL("doc.json")))
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return m.b.Prefix }
