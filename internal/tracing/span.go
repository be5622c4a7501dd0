package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartTraversalSpan starts the root span covering one whole traversal.
func StartTraversalSpan(ctx context.Context, tracer trace.Tracer, rootURL string, workers int) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "webdav traversal",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		attribute.String("batchdav.root_url", rootURL),
		attribute.Int("batchdav.workers", workers),
	)
	return ctx, span
}

// StartProbeSpan starts a span for a single resource probe. kind is the
// WebDAV method used ("PROPFIND" or "HEAD").
func StartProbeSpan(ctx context.Context, tracer trace.Tracer, kind, url string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, kind,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(
		attribute.String("http.request.method", kind),
		attribute.String("url.full", url),
	)
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
