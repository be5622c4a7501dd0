package tracing

import (
	"context"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jwodder/batchdav/internal/davclient"
	"github.com/jwodder/batchdav/internal/traverse"
)

// TracedClient decorates a traversal client with one span per probe.
type TracedClient struct {
	inner  traverse.Client
	tracer trace.Tracer
}

// WrapClient wraps inner so every list and probe is recorded as a client
// span under whatever span is active in the context.
func WrapClient(inner traverse.Client, tracer trace.Tracer) *TracedClient {
	return &TracedClient{inner: inner, tracer: tracer}
}

func (t *TracedClient) ListCollection(ctx context.Context, u *url.URL) (davclient.Listing, time.Duration, error) {
	ctx, span := StartProbeSpan(ctx, t.tracer, "PROPFIND", u.String())
	listing, elapsed, err := t.inner.ListCollection(ctx, u)
	EndSpan(span, err,
		attribute.Int("batchdav.children.collections", len(listing.Collections)),
		attribute.Int("batchdav.children.files", len(listing.Files)),
	)
	return listing, elapsed, err
}

func (t *TracedClient) ProbeFile(ctx context.Context, u *url.URL) (*url.URL, time.Duration, error) {
	ctx, span := StartProbeSpan(ctx, t.tracer, "HEAD", u.String())
	target, elapsed, err := t.inner.ProbeFile(ctx, u)
	redirected := target != nil
	EndSpan(span, err, attribute.Bool("batchdav.redirect", redirected))
	return target, elapsed, err
}
