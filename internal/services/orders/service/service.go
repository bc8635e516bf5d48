// Package service is the order client: one facade over whichever protocol generation the endpoint speaks
package service

import (
	"context"
	"encoding/json"
	"net/http"

	"eidclient/internal/adapters/rp/legacy"
	"eidclient/internal/adapters/rp/rest"
	"eidclient/internal/adapters/rp/transport"
	"eidclient/internal/core/endpoint"
	"eidclient/internal/core/order"
	perr "eidclient/internal/platform/errors"
	"eidclient/internal/platform/logger"
	"eidclient/internal/platform/validate"
	dom "eidclient/internal/services/orders/domain"

	"go.opentelemetry.io/otel/trace"
)

// Config is everything the factory needs to build a ready client
type Config struct {
	Endpoint  string
	EndUserIP string
	Transport transport.Config

	// HTTP replaces the client built from Transport when set
	HTTP      *http.Client
	Tracer    trace.Tracer
	UserAgent string
}

// AdapterOptions is what every generation's constructor receives
type AdapterOptions struct {
	Endpoint  endpoint.Descriptor
	HTTP      *http.Client
	Tracer    trace.Tracer
	UserAgent string
}

// adapters maps a resolved version to its constructor
var adapters = map[int]func(AdapterOptions) dom.Adapter{
	endpoint.VersionLegacy: func(o AdapterOptions) dom.Adapter {
		return legacy.New(legacy.Options{Endpoint: o.Endpoint, HTTP: o.HTTP, Tracer: o.Tracer, UserAgent: o.UserAgent})
	},
	endpoint.VersionREST: func(o AdapterOptions) dom.Adapter {
		return rest.New(rest.Options{Endpoint: o.Endpoint, HTTP: o.HTTP, Tracer: o.Tracer, UserAgent: o.UserAgent})
	},
}

// Client implements domain.OrderPort
// It holds no per-order state and is safe for concurrent use once built
type Client struct {
	ep        endpoint.Descriptor
	adapter   dom.Adapter
	endUserIP string
}

var _ dom.OrderPort = (*Client)(nil)

// New resolves the endpoint, loads transport material and selects the adapter
// Any failure is a configuration error and no client is returned
func New(cfg Config) (*Client, error) {
	ep, err := endpoint.Parse(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	if cfg.EndUserIP != "" {
		if err := validate.Get().Validator.Var(cfg.EndUserIP, "ip"); err != nil {
			return nil, perr.WithField(perr.Configf("end user ip %q is not an IP address", cfg.EndUserIP), "end_user_ip")
		}
	}
	hc := cfg.HTTP
	if hc == nil {
		if hc, err = transport.NewHTTPClient(cfg.Transport); err != nil {
			return nil, err
		}
	}
	build, ok := adapters[ep.Version]
	if !ok {
		return nil, perr.Configf("no adapter for endpoint version %d", ep.Version)
	}

	logger.Named("orders").Info().
		Str("endpoint", ep.URL.Redacted()).
		Int("version", ep.Version).
		Msg("order client ready")

	return &Client{
		ep:        ep,
		endUserIP: cfg.EndUserIP,
		adapter: build(AdapterOptions{
			Endpoint:  ep,
			HTTP:      hc,
			Tracer:    cfg.Tracer,
			UserAgent: cfg.UserAgent,
		}),
	}, nil
}

// NewWithAdapter builds a client around an already constructed adapter
func NewWithAdapter(ep endpoint.Descriptor, a dom.Adapter, endUserIP string) *Client {
	return &Client{ep: ep, adapter: a, endUserIP: endUserIP}
}

// Endpoint returns the resolved endpoint
func (c *Client) Endpoint() endpoint.Descriptor { return c.ep }

// Version returns the protocol generation in use
func (c *Client) Version() int { return c.ep.Version }

func (c *Client) ip(perCall string) string {
	if perCall != "" {
		return perCall
	}
	return c.endUserIP
}

// StartSign starts a signing order; UserVisibleData must be non-empty
func (c *Client) StartSign(ctx context.Context, in dom.SignInput) (order.Order, error) {
	if err := validate.Struct(in); err != nil {
		return order.Order{}, perr.WithOp(err, "StartSign")
	}
	o, err := c.adapter.Sign(ctx, order.SignRequest{
		PersonalNumber:  in.PersonalNumber,
		EndUserIP:       c.ip(in.EndUserIP),
		UserVisibleData: in.UserVisibleData,
		UserHiddenData:  in.UserHiddenData,
	})
	if err != nil {
		return order.Order{}, perr.WithOp(err, "StartSign")
	}
	logger.C(logger.WithRequest(ctx, "", o.OrderRef)).Debug().Str("component", "orders").Msg("sign order started")
	return o, nil
}

// StartAuth starts an authentication order
func (c *Client) StartAuth(ctx context.Context, in dom.AuthInput) (order.Order, error) {
	if err := validate.Struct(in); err != nil {
		return order.Order{}, perr.WithOp(err, "StartAuth")
	}
	o, err := c.adapter.Auth(ctx, order.AuthRequest{
		PersonalNumber: in.PersonalNumber,
		EndUserIP:      c.ip(in.EndUserIP),
	})
	if err != nil {
		return order.Order{}, perr.WithOp(err, "StartAuth")
	}
	logger.C(logger.WithRequest(ctx, "", o.OrderRef)).Debug().Str("component", "orders").Msg("auth order started")
	return o, nil
}

// Collect makes one round trip and returns the normalized outcome
func (c *Client) Collect(ctx context.Context, orderRef string) (order.Outcome, error) {
	if orderRef == "" {
		return order.Outcome{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "orderRef is required"), "orderRef")
	}
	raw, err := c.adapter.Collect(ctx, orderRef)
	if err != nil {
		return order.Outcome{}, perr.WithOp(err, "Collect")
	}
	out, err := raw.Normalize()
	if err != nil {
		return order.Outcome{}, perr.WithOp(err, "Collect")
	}
	return out, nil
}

// Cancel cancels orderRef where the generation supports it
// The remote answer is returned untouched
func (c *Client) Cancel(ctx context.Context, orderRef string) (json.RawMessage, error) {
	if orderRef == "" {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "orderRef is required"), "orderRef")
	}
	body, err := c.adapter.Cancel(ctx, orderRef)
	if err != nil {
		return nil, perr.WithOp(err, "Cancel")
	}
	return body, nil
}
