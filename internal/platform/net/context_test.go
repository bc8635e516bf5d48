package net_test

import (
	"context"
	"testing"

	pnet "eidclient/internal/platform/net"
)

func TestWithRequest_And_Getters(t *testing.T) {
	base := context.Background()

	cases := []struct {
		name, req, ref string
	}{
		{"both", "req-123", "131daac9-16c6-4618-beb0-365768f37288"},
		{"request only", "r-only", ""},
		{"order only", "", "o-only"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := pnet.WithRequest(base, tc.req, tc.ref)
			if got := pnet.RequestID(ctx); got != tc.req {
				t.Fatalf("RequestID = %q, want %q", got, tc.req)
			}
			if got := pnet.OrderRef(ctx); got != tc.ref {
				t.Fatalf("OrderRef = %q, want %q", got, tc.ref)
			}
		})
	}

	if ctx := pnet.WithRequest(base, "", ""); ctx != base {
		t.Fatalf("expected ctx unchanged when both ids are empty")
	}
}
