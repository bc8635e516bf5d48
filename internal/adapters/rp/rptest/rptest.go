// Package rptest runs in-process fakes of the remote identification service for tests
//
// A fake issues fresh order refs on sign/auth and walks each order through a scripted
// list of collect answers, repeating the last one. Any operation can be overridden with
// a raw handler to produce faults, empty bodies, or error statuses
package rptest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// Fixed completion material returned by complete answers
const (
	PersonalNumber = "199001011234"
	Name           = "Test Person"
	GivenName      = "Test"
	Surname        = "Person"
	Signature      = "c2lnbmF0dXJl"
	OCSPResponse   = "b2NzcHJlc3BvbnNl"
)

// Operation names calls are recorded under
const (
	OpSign    = "sign"
	OpAuth    = "auth"
	OpCollect = "collect"
	OpCancel  = "cancel"
)

// Call is one request seen by a fake
type Call struct {
	Op     string
	Header http.Header
	Body   []byte
}

// Server is a running fake
type Server struct {
	*httptest.Server
	path string

	mu        sync.Mutex
	script    []string
	orders    map[string]int
	calls     []Call
	overrides map[string]http.HandlerFunc
}

func newServer(t *testing.T, path string, h func(*Server) http.Handler) *Server {
	t.Helper()
	s := &Server{
		path:      path,
		orders:    map[string]int{},
		overrides: map[string]http.HandlerFunc{},
	}
	s.Server = httptest.NewServer(h(s))
	t.Cleanup(s.Close)
	return s
}

// Endpoint is the URL to configure the client with
func (s *Server) Endpoint() string { return s.URL + s.path }

// Script sets the collect answers every new order walks through
func (s *Server) Script(steps ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = steps
}

// Override replaces the fake's handling of op
func (s *Server) Override(op string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[op] = h
}

// Calls returns a copy of the requests seen so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the requests seen for op
func (s *Server) CallsTo(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) record(op string, r *http.Request, body []byte) http.HandlerFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: op, Header: r.Header.Clone(), Body: body})
	return s.overrides[op]
}

func (s *Server) newOrder() string {
	ref := uuid.NewString()
	s.mu.Lock()
	s.orders[ref] = 0
	s.mu.Unlock()
	return ref
}

// step returns the next scripted answer for ref, or false if ref is unknown
func (s *Server) step(ref string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.orders[ref]
	if !ok || len(s.script) == 0 {
		return "", ok
	}
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.orders[ref] = i + 1
	return s.script[i], true
}

func (s *Server) forget(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.orders[ref]
	delete(s.orders, ref)
	return ok
}
