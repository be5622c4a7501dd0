package davclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	userAgent          = "batchdav/" + Version + " (https://github.com/jwodder/batchdav)"
	requestContentType = "text/xml; charset=utf-8"
)

// Version is the tool version reported in the User-Agent header.
const Version = "0.2.0"

// propfindBody requests only the resourcetype property, which is all the
// traversal needs to classify children.
const propfindBody = `<?xml version="1.0" encoding="utf-8"?>
<propfind xmlns="DAV:">
    <prop>
        <resourcetype/>
    </prop>
</propfind>
`

// ListError reports a failed collection enumeration.
type ListError struct {
	URL        string
	StatusCode int // zero when the failure happened below HTTP
	Err        error
}

func (e *ListError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("list %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("list %s: server returned %d", e.URL, e.StatusCode)
}

func (e *ListError) Unwrap() error { return e.Err }

// ProbeError reports a failed leaf probe.
type ProbeError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("probe %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("probe %s: server returned %d", e.URL, e.StatusCode)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// Client issues PROPFIND and HEAD requests against a WebDAV hierarchy.
// It never follows redirects; redirect targets on leaf resources are
// reported, not fetched.
type Client struct {
	base    *url.URL
	hc      *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The replacement must
// not follow redirects or probe results will be wrong.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTimeout sets the per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit paces requests at rps per second across all workers.
// A non-positive rps leaves requests unpaced.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// New creates a Client rooted at base.
func New(base *url.URL, opts ...Option) (*Client, error) {
	if base == nil {
		return nil, fmt.Errorf("base URL is required")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", base.Scheme)
	}
	c := &Client{base: base, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	if c.hc == nil {
		c.hc = newHTTPClient(c.timeout)
	}
	return c, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// ListCollection enumerates the immediate children of the collection at u
// with a PROPFIND Depth:1 request. The returned duration covers the request
// and the full body read.
func (c *Client) ListCollection(ctx context.Context, u *url.URL) (Listing, time.Duration, error) {
	if err := c.wait(ctx); err != nil {
		return Listing{}, 0, &ListError{URL: u.String(), Err: err}
	}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, "PROPFIND", u.String(), strings.NewReader(propfindBody))
	if err != nil {
		return Listing{}, 0, &ListError{URL: u.String(), Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", requestContentType)
	req.Header.Set("Depth", "1")

	resp, err := c.hc.Do(req)
	if err != nil {
		return Listing{}, time.Since(start), &ListError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Listing{}, time.Since(start), &ListError{URL: u.String(), StatusCode: resp.StatusCode}
	}

	listing, err := parseMultistatus(resp.Body, c.base, u)
	elapsed := time.Since(start)
	if err != nil {
		return Listing{}, elapsed, &ListError{URL: u.String(), Err: err}
	}
	return listing, elapsed, nil
}

// ProbeFile issues a HEAD request against the leaf at u without following
// redirects. When the server answers with a redirect, the Location target is
// returned; a nil target means the resource was served directly.
func (c *Client) ProbeFile(ctx context.Context, u *url.URL) (*url.URL, time.Duration, error) {
	if err := c.wait(ctx); err != nil {
		return nil, 0, &ProbeError{URL: u.String(), Err: err}
	}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return nil, 0, &ProbeError{URL: u.String(), Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, time.Since(start), &ProbeError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode >= 400 {
		return nil, elapsed, &ProbeError{URL: u.String(), StatusCode: resp.StatusCode}
	}

	loc := resp.Header.Get("Location")
	if loc == "" {
		return nil, elapsed, nil
	}
	target, err := url.Parse(loc)
	if err != nil {
		return nil, elapsed, &ProbeError{URL: u.String(), Err: fmt.Errorf("invalid Location header %q: %w", loc, err)}
	}
	return target, elapsed, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
