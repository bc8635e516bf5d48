// Package http provides http transport for orders
package http

import (
	"net"
	stdhttp "net/http"

	perr "eidclient/internal/platform/errors"
	phttp "eidclient/internal/platform/net/http"
	"eidclient/internal/platform/net/http/bind"
	"eidclient/internal/services/api/orders/domain"
	orders "eidclient/internal/services/orders/domain"
)

// maxBody leaves room for the largest hidden data the remote service accepts
const maxBody = 512 << 10

// Register mounts order endpoints on the given router
func Register(r phttp.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	r.Post("/sign", startHandler(h.sign))
	r.Post("/auth", startHandler(h.auth))

	phttp.GetJSON(r, "/{orderRef}", h.collect)
	phttp.PostNoBody(r, "/{orderRef}/cancel", h.cancel)
	phttp.GetJSON(r, "/{orderRef}/journal", h.journal)
}

type handlers struct{ svc domain.ServicePort }

// startHandler binds T with the larger body limit and answers 201
func startHandler[T any](fn func(*stdhttp.Request, T) (any, error)) phttp.Handler {
	return phttp.Handle(func(r *stdhttp.Request) phttp.Response {
		in, err := bind.ParseJSON[T](r, bind.JSONOptions{MaxBytes: maxBody, DisallowUnknown: true})
		if err != nil {
			return phttp.Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return phttp.Error(err)
		}
		return phttp.Created(out)
	})
}

// callerIP is the end user's address when the body names none
// RealIP has already rewritten RemoteAddr from the proxy headers
func callerIP(r *stdhttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if net.ParseIP(host) == nil {
		return ""
	}
	return host
}

func orderRef(r *stdhttp.Request) (string, error) {
	ref := phttp.Param(r, "orderRef")
	if ref == "" {
		return "", perr.WithField(perr.New(perr.ErrorCodeValidation, "orderRef is required"), "orderRef")
	}
	return ref, nil
}

// @Summary Start a signing order
// @Router /orders/sign [post]
func (h *handlers) sign(r *stdhttp.Request, in orders.SignInput) (any, error) {
	if in.EndUserIP == "" {
		in.EndUserIP = callerIP(r)
	}
	return h.svc.Sign(r.Context(), in)
}

// @Summary Start an authentication order
// @Router /orders/auth [post]
func (h *handlers) auth(r *stdhttp.Request, in orders.AuthInput) (any, error) {
	if in.EndUserIP == "" {
		in.EndUserIP = callerIP(r)
	}
	return h.svc.Auth(r.Context(), in)
}

// @Summary Collect the current state of an order once
// @Router /orders/{orderRef} [get]
func (h *handlers) collect(r *stdhttp.Request) (any, error) {
	ref, err := orderRef(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Collect(r.Context(), ref)
}

// @Summary Cancel a pending order
// Legacy endpoints answer 501
// @Router /orders/{orderRef}/cancel [post]
func (h *handlers) cancel(r *stdhttp.Request) (any, error) {
	ref, err := orderRef(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Cancel(r.Context(), ref)
}

// @Summary Journal entry for an order
// @Router /orders/{orderRef}/journal [get]
func (h *handlers) journal(r *stdhttp.Request) (any, error) {
	ref, err := orderRef(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Journal(r.Context(), ref)
}
