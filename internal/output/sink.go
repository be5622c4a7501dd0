package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/jwodder/batchdav/internal/traverse"
)

// EventPrinter writes one line per visited resource as workers report them.
// Lines from different workers interleave in arbitrary order; the mutex only
// keeps individual lines intact.
type EventPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewEventPrinter(w io.Writer) *EventPrinter {
	if w == nil {
		w = io.Discard
	}
	return &EventPrinter{w: w}
}

// Emit implements traverse.Sink.
func (p *EventPrinter) Emit(o traverse.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, o)
}
