package http

import (
	stdctx "context"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type guardFunc func(stdctx.Context) error

func (g guardFunc) Guard(ctx stdctx.Context) error { return g(ctx) }

func TestReady(t *testing.T) {
	cases := []struct {
		name    string
		store   Guard
		overall string
		check   string
	}{
		{"no journal", nil, "ok", "skipped"},
		{"journal up", guardFunc(func(stdctx.Context) error { return nil }), "ok", "ok"},
		{"journal down", guardFunc(func(stdctx.Context) error { return errors.New("pg: refused") }), "degraded", "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &handlers{deps: Deps{Store: tc.store}, now: time.Now}
			out, err := h.ready(httptest.NewRequest(stdhttp.MethodGet, "/ready", nil))
			if err != nil {
				t.Fatalf("ready: %v", err)
			}
			rr := out.(ReadyResponse)
			if rr.Status != tc.overall || rr.Checks[0].Status != tc.check {
				t.Fatalf("got %+v", rr)
			}
		})
	}
}

func TestServiceUptime(t *testing.T) {
	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	h := &handlers{
		deps: Deps{ServiceName: "eid-api", StartedAt: start, Protocol: 5, Endpoint: "https://rp.example/rp/v5"},
		now:  func() time.Time { return start.Add(90 * time.Second) },
	}
	out, _ := h.service(nil)
	sr := out.(ServiceResponse)
	if sr.Uptime != 90 || sr.Protocol != 5 || sr.Name != "eid-api" {
		t.Fatalf("got %+v", sr)
	}
}
