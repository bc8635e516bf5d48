package net_test

import (
	"net/http"
	"testing"

	perr "eidclient/internal/platform/errors"
	pnet "eidclient/internal/platform/net"
)

func TestSuccessEnvelopes(t *testing.T) {
	status, w := pnet.OK(map[string]any{"x": 1}, "req-1")
	if status != http.StatusOK || w.StatusCode != http.StatusOK || w.Status != "OK" {
		t.Fatalf("OK envelope = %d %+v", status, w)
	}
	if w.RequestID != "req-1" || w.Data == nil {
		t.Fatalf("OK envelope lost fields: %+v", w)
	}

	status, w = pnet.Created("x", "")
	if status != http.StatusCreated || w.Status != http.StatusText(http.StatusCreated) {
		t.Fatalf("Created envelope = %d %+v", status, w)
	}
}

func TestErrorEnvelope(t *testing.T) {
	err := perr.WithRemote(perr.Rejectedf("remote rejected the call"), "alreadyInProgress")

	status, w := pnet.Error(err, "req-9")
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}
	if w.Code != perr.ErrorCodeRemoteRejection || w.RemoteCode != "alreadyInProgress" {
		t.Fatalf("wire = %+v", w)
	}
	if w.Error != "remote rejected the call" || w.RequestID != "req-9" {
		t.Fatalf("wire = %+v", w)
	}

	status, w = pnet.Error(perr.WithField(perr.New(perr.ErrorCodeValidation, "bad"), "personalNumber"), "")
	if status != http.StatusBadRequest || w.Field != "personalNumber" {
		t.Fatalf("validation envelope = %d %+v", status, w)
	}

	status, _ = pnet.Error(nil, "")
	if status != http.StatusOK {
		t.Fatalf("nil error should map to 200, got %d", status)
	}
}
