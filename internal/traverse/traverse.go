package traverse

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jwodder/batchdav/internal/davclient"
)

// Client abstracts the WebDAV operations the engine needs. Implementations
// must be safe for concurrent use and must not follow redirects on probes.
type Client interface {
	ListCollection(ctx context.Context, u *url.URL) (davclient.Listing, time.Duration, error)
	ProbeFile(ctx context.Context, u *url.URL) (*url.URL, time.Duration, error)
}

// Result summarizes one completed traversal.
type Result struct {
	Requests    int64 // total resources visited, including failures
	Collections int64
	Files       int64
	Failures    int64
	Elapsed     time.Duration
}

// Options configure an Engine.
type Options struct {
	Workers int    // number of concurrent probes, at least 1
	Client  Client // required
	Sink    Sink   // optional; receives one Outcome per visited resource
}

func (o *Options) normalize() {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Sink == nil {
		o.Sink = SinkFunc(func(Outcome) {})
	}
}

// Engine walks a WebDAV hierarchy with a bounded pool of workers.
type Engine struct {
	opt Options
}

func New(opt Options) *Engine {
	opt.normalize()
	return &Engine{opt: opt}
}

// Run traverses the hierarchy rooted at root and blocks until every
// reachable resource has been visited or ctx is cancelled. Individual
// request failures are reported through the sink and counted, not returned;
// the only error Run returns is the context's, when cancelled mid-walk.
func (e *Engine) Run(ctx context.Context, root *url.URL) (Result, error) {
	start := time.Now()
	f := newFrontier(root)

	var requests, dirs, files, failures atomic.Int64

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		<-watchCtx.Done()
		f.abort()
	}()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.opt.Workers; i++ {
		g.Go(func() error {
			for {
				it, ok := f.take()
				if !ok {
					return ctx.Err()
				}
				o := e.visit(ctx, f, it)
				requests.Add(1)
				switch {
				case o.Err != nil:
					failures.Add(1)
				case o.Kind == KindCollection:
					dirs.Add(1)
				default:
					files.Add(1)
				}
				e.opt.Sink.Emit(o)
				f.release()
			}
		})
	}
	err := g.Wait()

	return Result{
		Requests:    requests.Load(),
		Collections: dirs.Load(),
		Files:       files.Load(),
		Failures:    failures.Load(),
		Elapsed:     time.Since(start),
	}, err
}

// visit probes a single resource and, for collections, enqueues the children
// before the caller releases its in-flight slot. That ordering is what makes
// quiescence detection sound.
func (e *Engine) visit(ctx context.Context, f *frontier, it item) Outcome {
	if it.kind == KindCollection {
		listing, elapsed, err := e.opt.Client.ListCollection(ctx, it.u)
		if err != nil {
			return Outcome{URL: it.u, Kind: KindCollection, Elapsed: elapsed, Err: err}
		}
		f.add(listing.Collections, KindCollection)
		f.add(listing.Files, KindFile)
		return Outcome{URL: it.u, Kind: KindCollection, Elapsed: elapsed}
	}
	target, elapsed, err := e.opt.Client.ProbeFile(ctx, it.u)
	if err != nil {
		return Outcome{URL: it.u, Kind: KindFile, Elapsed: elapsed, Err: err}
	}
	return Outcome{URL: it.u, Kind: KindFile, Elapsed: elapsed, Redirect: target}
}
