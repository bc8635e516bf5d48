// Package modkit wires gateway modules onto the router
package modkit

import (
	phttp "eidclient/internal/platform/net/http"
)

// Module is the common surface for gateway modules
// keep this tiny so modules stay decoupled
type Module interface {
	// Name returns the module name used in logs
	Name() string
	// Prefix is the path the module mounts under, relative to the API version
	Prefix() string
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
