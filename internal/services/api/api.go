// Package api provides the HTTP gateway in front of the order client
package api

import (
	"net/http"
	"time"

	"eidclient/internal/core/endpoint"
	"eidclient/internal/modkit"
	"eidclient/internal/modkit/swaggerkit"
	"eidclient/internal/platform/config"
	"eidclient/internal/platform/logger"
	phttp "eidclient/internal/platform/net/http"
	"eidclient/internal/platform/net/middleware"
	"eidclient/internal/platform/store"
	journal "eidclient/internal/services/journal/domain"
	orders "eidclient/internal/services/orders/domain"

	metamod "eidclient/internal/services/api/meta/module"
	ordersmod "eidclient/internal/services/api/orders/module"
)

// Options are the API options
type Options struct {
	Config   config.Conf
	Store    *store.Store
	Orders   orders.OrderPort
	Endpoint endpoint.Descriptor
	Journal  journal.Recorder

	// Timeout bounds one request, including the round trip to the remote service
	Timeout     time.Duration
	CORSOrigins []string
	StartedAt   time.Time

	// Docs mounts the OpenAPI document and swagger UI at /v1/docs
	Docs bool
}

// Stack is the middleware every versioned route runs behind
func Stack(opt Options) []func(http.Handler) http.Handler {
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	mw := middleware.Defaults(timeout)
	if len(opt.CORSOrigins) > 0 {
		mw = append([]func(http.Handler) http.Handler{middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: opt.CORSOrigins,
			MaxAge:         300,
		})}, mw...)
	}
	return mw
}

// Mount mounts the gateway under /v1 onto the given router
func Mount(r phttp.Router, opt Options) {
	if opt.Orders == nil {
		panic("api.Mount requires an order client")
	}
	deps := modkit.Deps{
		Cfg:       opt.Config,
		Store:     opt.Store,
		Orders:    opt.Orders,
		Endpoint:  opt.Endpoint,
		Journal:   opt.Journal,
		StartedAt: opt.StartedAt,
	}

	mods := []modkit.Module{
		metamod.New(deps),
		ordersmod.New(deps),
	}
	if opt.Docs {
		mods = append(mods, swaggerkit.New("/v1"))
	}
	modkit.MountAPI(r, "v1", Stack(opt), mods...)

	logger.Named("api").Info().
		Int("protocol", opt.Endpoint.Version).
		Int("modules", len(mods)).
		Bool("docs", opt.Docs).
		Bool("journal", opt.Store != nil && opt.Store.PG != nil).
		Msg("gateway mounted")
}
