package transport

import (
	"context"

	perr "eidclient/internal/platform/errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan opens the client span for one adapter round trip
func StartSpan(ctx context.Context, tracer trace.Tracer, version int, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "rp."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int("rp.version", version),
			attribute.String("rp.operation", op),
		))
}

// Fail records err on span and returns it unchanged
func Fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, perr.CodeOf(err).String())
	if rc := perr.RemoteCode(err); rc != "" {
		span.SetAttributes(attribute.String("rp.remote_code", rc))
	}
	return err
}
