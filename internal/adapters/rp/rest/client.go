// Package rest speaks the v5 JSON-over-HTTP protocol
//
// Every operation is a POST of a JSON body to endpoint/<op>. Non-2xx answers may carry
// {"errorCode","details"}; 4xx become remote rejections and 5xx transport errors
package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"eidclient/internal/adapters/rp/transport"
	"eidclient/internal/core/endpoint"
	"eidclient/internal/core/normalize"
	"eidclient/internal/core/order"
	"eidclient/internal/core/version"
	perr "eidclient/internal/platform/errors"
	"eidclient/internal/platform/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Options configures the Client
type Options struct {
	Endpoint  endpoint.Descriptor
	HTTP      *http.Client
	Tracer    trace.Tracer
	UserAgent string
}

// Client is the v5 adapter; safe for concurrent use
type Client struct {
	ep     endpoint.Descriptor
	http   *http.Client
	tracer trace.Tracer
	ua     string
}

// New returns a Client with defaults filled in
func New(o Options) *Client {
	if o.HTTP == nil {
		o.HTTP = &http.Client{}
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer("eidclient/rp/rest")
	}
	if o.UserAgent == "" {
		o.UserAgent = version.UserAgent()
	}
	return &Client{ep: o.Endpoint, http: o.HTTP, tracer: o.Tracer, ua: o.UserAgent}
}

type requirement struct {
	AllowFingerprint bool `json:"allowFingerprint"`
}

type signBody struct {
	PersonalNumber     string      `json:"personalNumber,omitempty"`
	EndUserIP          string      `json:"endUserIp,omitempty"`
	UserVisibleData    string      `json:"userVisibleData"`
	UserNonVisibleData string      `json:"userNonVisibleData,omitempty"`
	Requirement        requirement `json:"requirement"`
}

type authBody struct {
	PersonalNumber string `json:"personalNumber,omitempty"`
	EndUserIP      string `json:"endUserIp,omitempty"`
}

type refBody struct {
	OrderRef string `json:"orderRef"`
}

type errorBody struct {
	ErrorCode string `json:"errorCode"`
	Details   string `json:"details"`
}

// Sign starts a signing order
func (c *Client) Sign(ctx context.Context, r order.SignRequest) (order.Order, error) {
	b := signBody{
		PersonalNumber:  r.PersonalNumber,
		EndUserIP:       r.EndUserIP,
		UserVisibleData: base64.StdEncoding.EncodeToString([]byte(r.UserVisibleData)),
		Requirement:     requirement{AllowFingerprint: true},
	}
	if r.UserHiddenData != "" {
		b.UserNonVisibleData = base64.StdEncoding.EncodeToString([]byte(r.UserHiddenData))
	}
	return c.start(ctx, "sign", b)
}

// Auth starts an authentication order
func (c *Client) Auth(ctx context.Context, r order.AuthRequest) (order.Order, error) {
	return c.start(ctx, "auth", authBody{PersonalNumber: r.PersonalNumber, EndUserIP: r.EndUserIP})
}

func (c *Client) start(ctx context.Context, op string, in any) (order.Order, error) {
	body, err := c.post(ctx, op, in)
	if err != nil {
		return order.Order{}, err
	}
	var o order.Order
	if err := json.Unmarshal(body, &o); err != nil {
		return order.Order{}, perr.Wrapf(err, perr.ErrorCodeMalformedResponse, "decode %s response", op)
	}
	if o.OrderRef == "" {
		return order.Order{}, perr.Malformedf("%s response has no orderRef", op)
	}
	return o, nil
}

// Collect fetches the raw progress of orderRef
func (c *Client) Collect(ctx context.Context, orderRef string) (normalize.Raw, error) {
	body, err := c.post(ctx, "collect", refBody{OrderRef: orderRef})
	if err != nil {
		return nil, err
	}
	var raw normalize.RestCollect
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMalformedResponse, "decode collect response")
	}
	if raw.OrderRef == "" {
		raw.OrderRef = orderRef
	}
	return raw, nil
}

// Cancel cancels orderRef and returns the remote answer untouched
func (c *Client) Cancel(ctx context.Context, orderRef string) (json.RawMessage, error) {
	body, err := c.post(ctx, "cancel", refBody{OrderRef: orderRef})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// post sends one JSON round trip and returns a non-empty, syntactically valid JSON body
func (c *Client) post(ctx context.Context, op string, in any) ([]byte, error) {
	ctx, span := transport.StartSpan(ctx, c.tracer, endpoint.VersionREST, op)
	defer span.End()

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, transport.Fail(span, perr.Wrapf(err, perr.ErrorCodeUnknown, "encode %s request", op))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ep.Join(op), bytes.NewReader(payload))
	if err != nil {
		return nil, transport.Fail(span, perr.Wrapf(err, perr.ErrorCodeConfiguration, "build %s request", op))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)

	x, err := transport.Do(c.http, req)
	if err != nil {
		return nil, transport.Fail(span, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", x.Status))
	logger.C(ctx).Debug().
		Str("component", "rp-rest").
		Str("op", op).
		Int("status", x.Status).
		Dur("latency", x.Latency).
		Int("bytes", len(x.Body)).
		Msg("rp round trip")

	if !x.OK() {
		return nil, transport.Fail(span, remoteError(op, x))
	}
	body := bytes.TrimSpace(x.Body)
	if len(body) == 0 {
		return nil, transport.Fail(span, perr.Malformedf("%s response body is empty", op))
	}
	if !json.Valid(body) {
		return nil, transport.Fail(span, perr.Malformedf("%s response body is not JSON: %.64q", op, body))
	}
	return body, nil
}

// remoteError maps a non-2xx answer, using the error body when there is one
func remoteError(op string, x transport.Exchange) error {
	var eb errorBody
	_ = json.Unmarshal(x.Body, &eb)

	msg := fmt.Sprintf("%s answered %d", op, x.Status)
	if eb.ErrorCode != "" {
		msg = fmt.Sprintf("%s: %s", msg, eb.ErrorCode)
		if eb.Details != "" {
			msg = fmt.Sprintf("%s (%s)", msg, eb.Details)
		}
	}
	code := perr.ErrorCodeRemoteRejection
	if x.Status >= http.StatusInternalServerError {
		code = perr.ErrorCodeTransport
	}
	return perr.WithRemote(perr.New(code, msg), eb.ErrorCode)
}
