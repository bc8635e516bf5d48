package rptest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

// NewREST starts a v5 fake serving under /rp/v5
// Script steps read "status/hintCode", e.g. "pending/outstandingTransaction" or "complete"
func NewREST(t *testing.T) *Server {
	s := newServer(t, "/rp/v5", func(s *Server) http.Handler {
		mux := http.NewServeMux()
		for _, op := range []string{OpSign, OpAuth, OpCollect, OpCancel} {
			mux.HandleFunc("POST /rp/v5/"+op, func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				if h := s.record(op, r, body); h != nil {
					h(w, r)
					return
				}
				s.serveREST(w, op, body)
			})
		}
		return mux
	})
	s.Script("pending/outstandingTransaction")
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) serveREST(w http.ResponseWriter, op string, body []byte) {
	var in struct {
		OrderRef string `json:"orderRef"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"errorCode": "invalidParameters", "details": "bad json"})
		return
	}

	switch op {
	case OpSign, OpAuth:
		ref := s.newOrder()
		writeJSON(w, http.StatusOK, map[string]string{
			"orderRef":       ref,
			"autoStartToken": "ast-" + ref,
			"qrStartToken":   "qst-" + ref,
			"qrStartSecret":  "qss-" + ref,
		})
	case OpCollect:
		step, ok := s.step(in.OrderRef)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errorCode": "invalidParameters", "details": "No such order"})
			return
		}
		status, hint, _ := strings.Cut(step, "/")
		out := map[string]any{"orderRef": in.OrderRef, "status": status}
		if hint != "" {
			out["hintCode"] = hint
		}
		if status == "complete" {
			out["completionData"] = map[string]any{
				"user": map[string]string{
					"personalNumber": PersonalNumber, "name": Name, "givenName": GivenName, "surname": Surname,
				},
				"device":       map[string]string{"ipAddress": "192.0.2.10"},
				"cert":         map[string]string{"notBefore": "1502983274000", "notAfter": "1563549674000"},
				"signature":    Signature,
				"ocspResponse": OCSPResponse,
			}
		}
		writeJSON(w, http.StatusOK, out)
	case OpCancel:
		if !s.forget(in.OrderRef) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errorCode": "invalidParameters", "details": "No such order"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	}
}
