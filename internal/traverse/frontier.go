package traverse

import (
	"net/url"
	"sync"
)

// item is one frontier entry. The kind is known at discovery time: children
// arrive pre-classified from the Depth:1 listing and the root is a
// collection by definition.
type item struct {
	u    *url.URL
	kind Kind
}

// frontier is the set of resources pending visitation plus the bookkeeping
// needed for quiescence detection. It is the only shared mutable state
// between workers.
//
// A take increments the in-flight count; the count is only decremented after
// the worker has finished the probe and enqueued any discovered children, so
// "queue empty and in-flight zero" can never be observed while a worker might
// still produce work. The worker that makes that observation marks the
// traversal finished and broadcasts, waking every blocked taker.
type frontier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []item
	seen     map[string]struct{}
	inflight int
	finished bool
}

func newFrontier(root *url.URL) *frontier {
	f := &frontier{
		queue: []item{{u: root, kind: KindCollection}},
		seen:  map[string]struct{}{root.String(): {}},
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// take blocks until an item is available or the traversal is over. The
// second return is false exactly once the traversal is finished (or
// aborted); the caller must pair every successful take with a release.
func (f *frontier) take() (item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for {
		if f.finished {
			return item{}, false
		}
		if len(f.queue) > 0 {
			it := f.queue[0]
			f.queue = f.queue[1:]
			f.inflight++
			return it, true
		}
		if f.inflight == 0 {
			// Nothing queued and nobody working: quiescent.
			f.finished = true
			f.cond.Broadcast()
			return item{}, false
		}
		f.cond.Wait()
	}
}

// add enqueues newly discovered children, skipping URLs already enqueued in
// this traversal. Must only be called by a worker holding an in-flight slot,
// which guarantees the traversal cannot finish underneath it.
func (f *frontier) add(urls []*url.URL, kind Kind) {
	if len(urls) == 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	added := 0
	for _, u := range urls {
		key := u.String()
		if _, ok := f.seen[key]; ok {
			continue
		}
		f.seen[key] = struct{}{}
		f.queue = append(f.queue, item{u: u, kind: kind})
		added++
	}
	if added > 0 {
		f.cond.Broadcast()
	}
}

// release returns an in-flight slot. When this was the last active worker
// and the queue is empty, the traversal is finished and all waiters are
// woken.
func (f *frontier) release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight--
	if f.inflight == 0 && len(f.queue) == 0 {
		f.finished = true
	}
	// Wake waiters either way: a child enqueued before this release may be
	// sitting in the queue with every other worker blocked.
	f.cond.Broadcast()
}

// abort ends the traversal early, waking all blocked takers. Used for
// context cancellation.
func (f *frontier) abort() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = true
	f.cond.Broadcast()
}
