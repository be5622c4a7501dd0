package batch

import (
	"context"
	"net/url"
	"time"

	"github.com/jwodder/batchdav/internal/traverse"
)

// TrialResult is the timing sample produced by one complete traversal.
type TrialResult struct {
	Workers  int
	Requests int64
	Failures int64
	Elapsed  time.Duration
}

// RunTrial performs one traversal of root with the given worker count and
// returns its wall-clock duration and request count. The clock starts
// immediately before the workers launch and stops when quiescence is
// observed; there is no retry logic, a trial completes or fails as a unit.
func RunTrial(ctx context.Context, client traverse.Client, root *url.URL, workers int, sink traverse.Sink) (TrialResult, error) {
	eng := traverse.New(traverse.Options{
		Workers: workers,
		Client:  client,
		Sink:    sink,
	})
	res, err := eng.Run(ctx, root)
	if err != nil {
		return TrialResult{}, err
	}
	return TrialResult{
		Workers:  workers,
		Requests: res.Requests,
		Failures: res.Failures,
		Elapsed:  res.Elapsed,
	}, nil
}
