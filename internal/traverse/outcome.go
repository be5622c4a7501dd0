package traverse

import (
	"fmt"
	"net/url"
	"time"
)

// Kind classifies a visited resource.
type Kind int

const (
	KindCollection Kind = iota
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "DIR"
	case KindFile:
		return "FILE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of probing one resource. Produced by exactly one
// worker and immutable afterwards.
type Outcome struct {
	URL     *url.URL
	Kind    Kind
	Elapsed time.Duration

	// Redirect is the Location target reported by a leaf probe, nil when
	// the leaf was served directly. Always nil for collections.
	Redirect *url.URL

	// Err is non-nil when the probe failed; the resource still counts as
	// visited but expands no children.
	Err error
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("ERROR: %s (%v)", o.URL, o.Err)
	}
	switch o.Kind {
	case KindCollection:
		return fmt.Sprintf("DIR: %s (%v)", o.URL, o.Elapsed)
	default:
		if o.Redirect != nil {
			return fmt.Sprintf("FILE: %s => %s (%v)", o.URL, o.Redirect, o.Elapsed)
		}
		return fmt.Sprintf("FILE: %s => <NOT A REDIRECT> (%v)", o.URL, o.Elapsed)
	}
}

// Sink receives outcomes as workers produce them. Emission order across
// workers is arbitrary. Implementations must be safe for concurrent use and
// must not block beyond a fast hand-off.
type Sink interface {
	Emit(Outcome)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Outcome)

func (f SinkFunc) Emit(o Outcome) { f(o) }

// MultiSink fans an outcome out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Emit(o Outcome) {
	for _, s := range m {
		s.Emit(o)
	}
}
