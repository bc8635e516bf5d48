// Package middleware adapts chi and cors middleware and holds the gateway's own
package middleware

import (
	"net/http"
	"time"

	"eidclient/internal/platform/logger"
	pnet "eidclient/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID attaches or propagates X-Request-ID and stores it on context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr from X-Real-IP / X-Forwarded-For
// The orders API falls back to RemoteAddr when no endUserIp is sent
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache disables client and proxy caching of order state
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Correlate copies the request id into the logger context so logger.C picks it up
func Correlate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := pnet.RequestID(r.Context())
			if reqID == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-Request-ID", reqID)
			ctx := logger.WithRequest(r.Context(), reqID, "")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         int
}

// CORS wraps go-chi/cors with the methods and headers the gateway serves
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}

// Defaults is the stack mounted ahead of every gateway route
func Defaults(timeout time.Duration) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RealIP(),
		RequestID(),
		Correlate(),
		RecoverJSON,
		AccessLogZerolog(AccessLogOptions{Slow: 2 * time.Second}),
		Timeout(timeout),
		NoCache(),
	}
}
