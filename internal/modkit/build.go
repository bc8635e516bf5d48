package modkit

import (
	"net/http"
	"strings"

	"eidclient/internal/platform/logger"
	phttp "eidclient/internal/platform/net/http"
)

// Built is the resolved module configuration
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Register func(phttp.Router)
}

// Build applies opts over the defaults
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(phttp.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   normalizePrefix(c.prefix),
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Register: c.register,
	}
}

func normalizePrefix(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Mount opens the module's prefix, applies its middleware, then runs own and the extra register hook
func (b Built) Mount(r phttp.Router, own func(phttp.Router)) {
	r.Route(b.Prefix, func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		own(rr)
		b.Register(rr)
	})
}

// MountAPI mounts every module under /{version} with a shared middleware stack
func MountAPI(r phttp.Router, version string, mw []func(http.Handler) http.Handler, mods ...Module) {
	r.Route("/"+strings.Trim(version, "/"), func(api phttp.Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		for _, m := range mods {
			logger.Named("modkit").Debug().Str("module", m.Name()).Str("prefix", m.Prefix()).Msg("mounting module")
			m.MountRoutes(api)
		}
	})
}
