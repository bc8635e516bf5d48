// Package legacy speaks the v4 SOAP RPC protocol
//
// Sign, Authenticate and Collect are SOAP 1.1 calls posted to the endpoint itself.
// The generation has no cancel method
package legacy

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"encoding/xml"
	"errors"
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

// Client is the v4 adapter; safe for concurrent use
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
		o.Tracer = otel.Tracer("eidclient/rp/legacy")
	}
	if o.UserAgent == "" {
		o.UserAgent = version.UserAgent()
	}
	return &Client{ep: o.Endpoint, http: o.HTTP, tracer: o.Tracer, ua: o.UserAgent}
}

func userInfoFor(ip string) *endUserInfo {
	if ip == "" {
		return nil
	}
	return &endUserInfo{Type: "IP_ADDR", Value: ip}
}

// Sign starts a signing order
func (c *Client) Sign(ctx context.Context, r order.SignRequest) (order.Order, error) {
	req := signRequest{
		PersonalNumber:  r.PersonalNumber,
		EndUserInfo:     userInfoFor(r.EndUserIP),
		Requirement:     allowFingerprint,
		UserVisibleData: base64.StdEncoding.EncodeToString([]byte(r.UserVisibleData)),
	}
	if r.UserHiddenData != "" {
		req.UserNonVisibleData = base64.StdEncoding.EncodeToString([]byte(r.UserHiddenData))
	}
	env, err := c.call(ctx, "Sign", req)
	if err != nil {
		return order.Order{}, rejectFault(err)
	}
	return orderFrom("Sign", env.Body.Sign)
}

// Auth starts an authentication order
func (c *Client) Auth(ctx context.Context, r order.AuthRequest) (order.Order, error) {
	env, err := c.call(ctx, "Authenticate", authRequest{
		PersonalNumber: r.PersonalNumber,
		EndUserInfo:    userInfoFor(r.EndUserIP),
	})
	if err != nil {
		return order.Order{}, rejectFault(err)
	}
	return orderFrom("Authenticate", env.Body.Auth)
}

func orderFrom(method string, r *orderResponse) (order.Order, error) {
	if r == nil {
		return order.Order{}, perr.Malformedf("%s response has no %sResponse element", method, method)
	}
	if r.OrderRef == "" {
		return order.Order{}, perr.Malformedf("%s response has no orderRef", method)
	}
	return order.Order{OrderRef: r.OrderRef, AutoStartToken: r.AutoStartToken}, nil
}

// Collect fetches the raw progress of orderRef
// A fault whose status belongs to the collect vocabulary is reported as that progress
func (c *Client) Collect(ctx context.Context, orderRef string) (normalize.Raw, error) {
	env, err := c.call(ctx, "Collect", collectRequest{OrderRef: orderRef})
	if err != nil {
		var fe *faultError
		if errors.As(err, &fe) && normalize.IsLegacyCode(fe.f.Status) {
			return normalize.LegacyCollect{OrderRef: orderRef, ProgressStatus: fe.f.Status}, nil
		}
		return nil, rejectFault(err)
	}
	cr := env.Body.Collect
	if cr == nil {
		return nil, perr.Malformedf("Collect response has no CollectResponse element")
	}
	raw := normalize.LegacyCollect{
		OrderRef:       orderRef,
		ProgressStatus: cr.ProgressStatus,
		Signature:      cr.Signature,
		OCSPResponse:   cr.OCSPResponse,
	}
	if u := cr.UserInfo; u != nil {
		raw.User = &order.UserInfo{
			PersonalNumber: u.PersonalNumber,
			Name:           u.Name,
			GivenName:      u.GivenName,
			Surname:        u.Surname,
			NotBefore:      u.NotBefore,
			NotAfter:       u.NotAfter,
			IPAddress:      u.IPAddress,
		}
	}
	return raw, nil
}

// Cancel is not offered by this generation; no request is sent
func (c *Client) Cancel(ctx context.Context, orderRef string) (json.RawMessage, error) {
	logger.C(ctx).Debug().Str("component", "rp-legacy").Msg("cancel requested on v4 endpoint")
	return nil, perr.WithOp(perr.Unsupportedf("cancel is not supported by the v4 protocol"), "Cancel")
}

// call posts one SOAP request and decodes the envelope
// A SOAP fault comes back as *faultError so callers can decide what it means
func (c *Client) call(ctx context.Context, method string, content any) (*responseEnvelope, error) {
	ctx, span := transport.StartSpan(ctx, c.tracer, endpoint.VersionLegacy, method)
	defer span.End()

	payload, err := xml.Marshal(wrap(content))
	if err != nil {
		return nil, transport.Fail(span, perr.Wrapf(err, perr.ErrorCodeUnknown, "encode %s request", method))
	}
	payload = append([]byte(xml.Header), payload...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ep.URL.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, transport.Fail(span, perr.Wrapf(err, perr.ErrorCodeConfiguration, "build %s request", method))
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", fmt.Sprintf("%q", method))
	req.Header.Set("User-Agent", c.ua)

	x, err := transport.Do(c.http, req)
	if err != nil {
		return nil, transport.Fail(span, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", x.Status))
	logger.C(ctx).Debug().
		Str("component", "rp-legacy").
		Str("method", method).
		Int("status", x.Status).
		Dur("latency", x.Latency).
		Int("bytes", len(x.Body)).
		Msg("rp round trip")

	body := bytes.TrimSpace(x.Body)
	if len(body) == 0 {
		if !x.OK() {
			return nil, transport.Fail(span, statusError(method, x.Status))
		}
		return nil, transport.Fail(span, perr.Malformedf("%s response body is empty", method))
	}

	var env responseEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		if !x.OK() {
			return nil, transport.Fail(span, statusError(method, x.Status))
		}
		return nil, transport.Fail(span, perr.Wrapf(err, perr.ErrorCodeMalformedResponse, "decode %s response", method))
	}
	if f := env.Body.Fault; f != nil {
		fe := &faultError{method: method, f: *f}
		span.RecordError(fe)
		span.SetAttributes(attribute.String("rp.fault_status", f.Status))
		return nil, fe
	}
	if !x.OK() {
		return nil, transport.Fail(span, statusError(method, x.Status))
	}
	return &env, nil
}

func statusError(method string, status int) error {
	if status >= http.StatusInternalServerError {
		return perr.Transportf("%s answered %d", method, status)
	}
	return perr.Rejectedf("%s answered %d", method, status)
}
