// Package net carries request-scoped ids and the response envelope shared by transports
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const keyOrderRef ctxKey = "order_ref"

// WithRequest annotates ctx with the request id and the order being worked on
// Empty values are skipped and ctx is returned unchanged when both are empty
func WithRequest(ctx context.Context, reqID, orderRef string) context.Context {
	if reqID != "" {
		// stored under chi's key so chimw.GetReqID sees it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if orderRef != "" {
		ctx = context.WithValue(ctx, keyOrderRef, orderRef)
	}
	return ctx
}

// RequestID returns the request id on ctx, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// OrderRef returns the order reference on ctx, or ""
func OrderRef(ctx context.Context) string {
	v, _ := ctx.Value(keyOrderRef).(string)
	return v
}
