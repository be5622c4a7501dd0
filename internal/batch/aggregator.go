package batch

import (
	"context"
	"net/url"
	"time"

	"github.com/jwodder/batchdav/internal/traverse"
)

// DefaultSamples is the number of trials per worker count when unspecified.
const DefaultSamples = 10

// Summary is one aggregated row: all trials sharing a worker count.
type Summary struct {
	Workers       int     `json:"workers"`
	Samples       int     `json:"samples"`
	MeanSeconds   float64 `json:"time_mean_s"`
	StdDevSeconds float64 `json:"time_stddev_s"`
}

// Mean returns the mean trial duration.
func (s Summary) Mean() time.Duration {
	return time.Duration(s.MeanSeconds * float64(time.Second))
}

// StdDev returns the sample standard deviation of trial durations.
func (s Summary) StdDev() time.Duration {
	return time.Duration(s.StdDevSeconds * float64(time.Second))
}

// Aggregator runs repeated trials per worker count and reduces them to
// summary rows. Trials never overlap: concurrent traversals would contend
// for the network and contaminate each other's timing.
type Aggregator struct {
	samples int
	onTrial func(run int, r TrialResult)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSamples sets the number of trials per worker count.
func WithSamples(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.samples = n
		}
	}
}

// WithTrialObserver registers a callback invoked after each completed trial,
// in order. run counts from 1 within each worker count.
func WithTrialObserver(fn func(run int, r TrialResult)) Option {
	return func(a *Aggregator) { a.onTrial = fn }
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{samples: DefaultSamples}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the configured number of trials for each worker count, in the
// order given, and returns one Summary per worker count. A trial that
// experienced request failures still counts toward the statistics; only a
// trial aborted by ctx is discarded, in which case Run returns early and no
// partial row is produced for the interrupted worker count.
func (a *Aggregator) Run(ctx context.Context, client traverse.Client, root *url.URL, workerCounts []int) ([]Summary, error) {
	summaries := make([]Summary, 0, len(workerCounts))
	for _, workers := range workerCounts {
		secs := make([]float64, 0, a.samples)
		for run := 1; run <= a.samples; run++ {
			result, err := RunTrial(ctx, client, root, workers, traverse.SinkFunc(func(traverse.Outcome) {}))
			if err != nil {
				return summaries, err
			}
			secs = append(secs, result.Elapsed.Seconds())
			if a.onTrial != nil {
				a.onTrial(run, result)
			}
		}
		m := mean(secs)
		summaries = append(summaries, Summary{
			Workers:       workers,
			Samples:       len(secs),
			MeanSeconds:   m,
			StdDevSeconds: sampleStdDev(secs, m),
		})
	}
	return summaries, nil
}
