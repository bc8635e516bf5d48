package rest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"eidclient/internal/adapters/rp/rptest"
	"eidclient/internal/core/endpoint"
	"eidclient/internal/core/normalize"
	"eidclient/internal/core/order"
	perr "eidclient/internal/platform/errors"

	"go.opentelemetry.io/otel/trace/noop"
)

func newClient(t *testing.T, srv *rptest.Server) *Client {
	t.Helper()
	ep, err := endpoint.Parse(srv.Endpoint())
	if err != nil {
		t.Fatalf("parse endpoint: %v", err)
	}
	return New(Options{Endpoint: ep, HTTP: srv.Client(), Tracer: noop.NewTracerProvider().Tracer("test"), UserAgent: "test-agent"})
}

func TestSign_EncodesBody(t *testing.T) {
	srv := rptest.NewREST(t)
	c := newClient(t, srv)

	o, err := c.Sign(context.Background(), order.SignRequest{
		PersonalNumber:  rptest.PersonalNumber,
		EndUserIP:       "192.0.2.1",
		UserVisibleData: "Pay 100 SEK",
		UserHiddenData:  "invoice-7",
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if o.OrderRef == "" || o.AutoStartToken == "" || o.QRStartToken == "" || o.QRStartSecret == "" {
		t.Fatalf("incomplete order %+v", o)
	}

	calls := srv.CallsTo(rptest.OpSign)
	if len(calls) != 1 {
		t.Fatalf("want 1 sign call, got %d", len(calls))
	}
	if ua := calls[0].Header.Get("User-Agent"); ua != "test-agent" {
		t.Fatalf("user agent %q", ua)
	}
	var got map[string]any
	if err := json.Unmarshal(calls[0].Body, &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got["userVisibleData"] != base64.StdEncoding.EncodeToString([]byte("Pay 100 SEK")) {
		t.Fatalf("visible data %v", got["userVisibleData"])
	}
	if got["userNonVisibleData"] != base64.StdEncoding.EncodeToString([]byte("invoice-7")) {
		t.Fatalf("hidden data %v", got["userNonVisibleData"])
	}
	if got["endUserIp"] != "192.0.2.1" || got["personalNumber"] != rptest.PersonalNumber {
		t.Fatalf("body %v", got)
	}
	req, _ := got["requirement"].(map[string]any)
	if req["allowFingerprint"] != true {
		t.Fatalf("requirement %v", got["requirement"])
	}
}

func TestSign_OmitsEmptyHiddenData(t *testing.T) {
	srv := rptest.NewREST(t)
	c := newClient(t, srv)
	if _, err := c.Sign(context.Background(), order.SignRequest{EndUserIP: "192.0.2.1", UserVisibleData: "x"}); err != nil {
		t.Fatalf("sign: %v", err)
	}
	var got map[string]any
	_ = json.Unmarshal(srv.CallsTo(rptest.OpSign)[0].Body, &got)
	if _, ok := got["userNonVisibleData"]; ok {
		t.Fatalf("hidden data should be omitted: %v", got)
	}
	if _, ok := got["personalNumber"]; ok {
		t.Fatalf("personal number should be omitted: %v", got)
	}
}

func TestEndpointQueryIsKept(t *testing.T) {
	srv := rptest.NewREST(t)
	ep, err := endpoint.Parse(srv.Endpoint() + "?tenant=a")
	if err != nil {
		t.Fatalf("parse endpoint: %v", err)
	}
	c := New(Options{Endpoint: ep, HTTP: srv.Client(), Tracer: noop.NewTracerProvider().Tracer("test")})

	if _, err := c.Auth(context.Background(), order.AuthRequest{EndUserIP: "192.0.2.1"}); err != nil {
		t.Fatalf("auth: %v", err)
	}
	if n := len(srv.CallsTo(rptest.OpAuth)); n != 1 {
		t.Fatalf("auth route saw %d calls", n)
	}
}

func TestAuth_AndCollectPending(t *testing.T) {
	srv := rptest.NewREST(t)
	c := newClient(t, srv)
	ctx := context.Background()

	o, err := c.Auth(ctx, order.AuthRequest{EndUserIP: "192.0.2.1"})
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	raw, err := c.Collect(ctx, o.OrderRef)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	rc, ok := raw.(normalize.RestCollect)
	if !ok {
		t.Fatalf("want RestCollect, got %T", raw)
	}
	if rc.Status != "pending" || rc.HintCode != "outstandingTransaction" || rc.OrderRef != o.OrderRef {
		t.Fatalf("unexpected raw %+v", rc)
	}
	out, err := raw.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Status != order.StatusPending || out.Hint != order.HintOutstandingTransaction {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestCollect_Complete(t *testing.T) {
	srv := rptest.NewREST(t)
	srv.Script("pending/userSign", "complete")
	c := newClient(t, srv)
	ctx := context.Background()

	o, _ := c.Sign(ctx, order.SignRequest{EndUserIP: "192.0.2.1", UserVisibleData: "x"})
	if _, err := c.Collect(ctx, o.OrderRef); err != nil {
		t.Fatalf("first collect: %v", err)
	}
	raw, err := c.Collect(ctx, o.OrderRef)
	if err != nil {
		t.Fatalf("second collect: %v", err)
	}
	out, err := raw.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Status != order.StatusComplete || out.Completion == nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Completion.User.PersonalNumber != rptest.PersonalNumber || out.Completion.Signature != rptest.Signature {
		t.Fatalf("completion %+v", out.Completion)
	}
}

func TestCollect_FillsMissingOrderRef(t *testing.T) {
	srv := rptest.NewREST(t)
	srv.Override(rptest.OpCollect, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"failed","hintCode":"userCancel"}`))
	})
	raw, err := newClient(t, srv).Collect(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if raw.(normalize.RestCollect).OrderRef != "ref-1" {
		t.Fatalf("order ref not filled: %+v", raw)
	}
}

func TestCancel_PassesBodyThrough(t *testing.T) {
	srv := rptest.NewREST(t)
	c := newClient(t, srv)
	ctx := context.Background()
	o, _ := c.Auth(ctx, order.AuthRequest{EndUserIP: "192.0.2.1"})

	body, err := c.Cancel(ctx, o.OrderRef)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if string(body) != "{}" {
		t.Fatalf("body %q", body)
	}

	_, err = c.Cancel(ctx, o.OrderRef)
	if !perr.IsCode(err, perr.ErrorCodeRemoteRejection) {
		t.Fatalf("second cancel: want rejection, got %v", err)
	}
	if perr.RemoteCode(err) != "invalidParameters" {
		t.Fatalf("remote code %q", perr.RemoteCode(err))
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		code   perr.ErrorCode
		remote string
	}{
		{"already in progress", http.StatusConflict, `{"errorCode":"alreadyInProgress","details":"Order already in progress"}`, perr.ErrorCodeRemoteRejection, "alreadyInProgress"},
		{"bad request without body", http.StatusBadRequest, ``, perr.ErrorCodeRemoteRejection, ""},
		{"maintenance", http.StatusServiceUnavailable, `{"errorCode":"maintenance"}`, perr.ErrorCodeTransport, "maintenance"},
		{"internal html", http.StatusInternalServerError, `<html>oops</html>`, perr.ErrorCodeTransport, ""},
		{"empty 200", http.StatusOK, ``, perr.ErrorCodeMalformedResponse, ""},
		{"garbage 200", http.StatusOK, `not json`, perr.ErrorCodeMalformedResponse, ""},
		{"no orderRef", http.StatusOK, `{"autoStartToken":"x"}`, perr.ErrorCodeMalformedResponse, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := rptest.NewREST(t)
			srv.Override(rptest.OpAuth, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := newClient(t, srv).Auth(context.Background(), order.AuthRequest{EndUserIP: "192.0.2.1"})
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("want %v, got %v", tc.code, err)
			}
			if got := perr.RemoteCode(err); got != tc.remote {
				t.Fatalf("remote code: want %q, got %q", tc.remote, got)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := rptest.NewREST(t)
	c := newClient(t, srv)
	srv.Close()
	_, err := c.Collect(context.Background(), "ref")
	if !perr.IsCode(err, perr.ErrorCodeTransport) {
		t.Fatalf("want transport error, got %v", err)
	}
}
