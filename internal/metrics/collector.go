package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/jwodder/batchdav/internal/traverse"
)

// Collector records per-request metrics in a thread-safe manner. It plugs
// into a traversal directly as an event sink.
type Collector struct {
	mu         sync.Mutex
	hist       *hdrhistogram.Histogram
	dirHist    *hdrhistogram.Histogram
	fileHist   *hdrhistogram.Histogram
	dirs       int64
	files      int64
	failures   int64
	minLatency time.Duration
	maxLatency time.Duration
	sumLatency time.Duration
}

// Stats represents aggregated per-request metrics for one traversal.
type Stats struct {
	Total          int64         `json:"total"`
	Collections    int64         `json:"collections"`
	Files          int64         `json:"files"`
	Failures       int64         `json:"failures"`
	MinLatency     time.Duration `json:"-"`
	MaxLatency     time.Duration `json:"-"`
	MeanLatency    time.Duration `json:"-"`
	P50Latency     time.Duration `json:"-"`
	P90Latency     time.Duration `json:"-"`
	P99Latency     time.Duration `json:"-"`
	Duration       time.Duration `json:"-"`
	RequestsPerSec float64       `json:"requests_per_sec"`

	// JSON-friendly millisecond fields.
	MinLatencyMs  float64 `json:"min_latency_ms"`
	MaxLatencyMs  float64 `json:"max_latency_ms"`
	MeanLatencyMs float64 `json:"mean_latency_ms"`
	P50LatencyMs  float64 `json:"p50_latency_ms"`
	P90LatencyMs  float64 `json:"p90_latency_ms"`
	P99LatencyMs  float64 `json:"p99_latency_ms"`
	DurationMs    float64 `json:"duration_ms"`

	DirectoryRequests KindStats `json:"directory_request_times"`
	FileRequests      KindStats `json:"file_request_times"`
}

// KindStats summarizes request latencies for one resource kind.
type KindStats struct {
	Count  int64   `json:"count"`
	MeanMs float64 `json:"mean_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P90Ms  float64 `json:"p90_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	return &Collector{
		hist:     hdrhistogram.New(1, 60_000_000, 3),
		dirHist:  hdrhistogram.New(1, 60_000_000, 3),
		fileHist: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Emit records one traversal outcome. Implements traverse.Sink.
func (c *Collector) Emit(o traverse.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.Err != nil {
		c.failures++
		return
	}

	if o.Kind == traverse.KindCollection {
		c.dirs++
	} else {
		c.files++
	}

	latency := o.Elapsed
	if latency > 0 {
		us := clampValue(c.hist, latency.Microseconds())
		_ = c.hist.RecordValue(us)
		if o.Kind == traverse.KindCollection {
			_ = c.dirHist.RecordValue(us)
		} else {
			_ = c.fileHist.RecordValue(us)
		}
	}
	c.sumLatency += latency

	if c.minLatency == 0 || latency < c.minLatency {
		c.minLatency = latency
	}
	if latency > c.maxLatency {
		c.maxLatency = latency
	}
}

func clampValue(h *hdrhistogram.Histogram, v int64) int64 {
	if v < h.LowestTrackableValue() {
		return h.LowestTrackableValue()
	}
	if v > h.HighestTrackableValue() {
		return h.HighestTrackableValue()
	}
	return v
}

// Stats computes and returns current aggregated statistics.
func (c *Collector) Stats(elapsed time.Duration) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.dirs + c.files + c.failures
	stats := Stats{
		Total:       total,
		Collections: c.dirs,
		Files:       c.files,
		Failures:    c.failures,
		MinLatency:  c.minLatency,
		MaxLatency:  c.maxLatency,
	}

	succeeded := c.dirs + c.files
	if succeeded > 0 {
		stats.MeanLatency = time.Duration(int64(c.sumLatency) / succeeded)
	}

	if c.hist.TotalCount() > 0 {
		stats.P50Latency = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		stats.P90Latency = time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond
		stats.P99Latency = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}

	stats.MinLatencyMs = float64(stats.MinLatency) / float64(time.Millisecond)
	stats.MaxLatencyMs = float64(stats.MaxLatency) / float64(time.Millisecond)
	stats.MeanLatencyMs = float64(stats.MeanLatency) / float64(time.Millisecond)
	stats.P50LatencyMs = float64(stats.P50Latency) / float64(time.Millisecond)
	stats.P90LatencyMs = float64(stats.P90Latency) / float64(time.Millisecond)
	stats.P99LatencyMs = float64(stats.P99Latency) / float64(time.Millisecond)

	stats.Duration = elapsed
	stats.DurationMs = float64(elapsed) / float64(time.Millisecond)
	if elapsed > 0 && total > 0 {
		stats.RequestsPerSec = float64(total) / elapsed.Seconds()
	}

	stats.DirectoryRequests = kindStats(c.dirHist)
	stats.FileRequests = kindStats(c.fileHist)

	return stats
}

func kindStats(h *hdrhistogram.Histogram) KindStats {
	ks := KindStats{Count: h.TotalCount()}
	if ks.Count == 0 {
		return ks
	}
	ks.MeanMs = h.Mean() / 1000
	ks.P50Ms = float64(h.ValueAtQuantile(50)) / 1000
	ks.P90Ms = float64(h.ValueAtQuantile(90)) / 1000
	ks.P99Ms = float64(h.ValueAtQuantile(99)) / 1000
	return ks
}
