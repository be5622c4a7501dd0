package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/oklog/ulid/v2"
	"github.com/olekukonko/tablewriter"

	"github.com/jwodder/batchdav/internal/batch"
	"github.com/jwodder/batchdav/internal/metrics"
)

// NewRunID returns a fresh ULID for stamping reports, so archived output
// from repeated benchmark sessions stays distinguishable.
func NewRunID() string {
	return ulid.Make().String()
}

// RunReport is the JSON document emitted for a single traversal.
type RunReport struct {
	RunID   string        `json:"run_id"`
	URL     string        `json:"url"`
	Workers int           `json:"workers"`
	Stats   metrics.Stats `json:"stats"`
}

// BatchReport is the JSON document emitted for a batch session.
type BatchReport struct {
	RunID     string          `json:"run_id"`
	URL       string          `json:"url"`
	Samples   int             `json:"samples"`
	Summaries []batch.Summary `json:"summaries"`
}

// PrintRunReport outputs the human-readable summary for one traversal.
func PrintRunReport(w io.Writer, workers int, stats metrics.Stats) {
	fmt.Fprintf(w, "Performed %d requests with %d workers in %v\n", stats.Total, workers, stats.Duration)
	if stats.Failures > 0 {
		fmt.Fprintf(w, "Failed requests:   %d\n", stats.Failures)
	}
	fmt.Fprintf(w, "Collections:       %d\n", stats.Collections)
	fmt.Fprintf(w, "Files:             %d\n", stats.Files)
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", stats.RequestsPerSec)
	fmt.Fprintln(w, "\nLatency:")
	fmt.Fprintf(w, "  Min:             %s\n", stats.MinLatency)
	fmt.Fprintf(w, "  Max:             %s\n", stats.MaxLatency)
	fmt.Fprintf(w, "  Mean:            %s\n", stats.MeanLatency)
	fmt.Fprintf(w, "  P50:             %s\n", stats.P50Latency)
	fmt.Fprintf(w, "  P90:             %s\n", stats.P90Latency)
	fmt.Fprintf(w, "  P99:             %s\n", stats.P99Latency)
}

// PrintJSONReport encodes any report document as indented JSON.
func PrintJSONReport(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// PrintBatchTable renders one row per worker count.
func PrintBatchTable(w io.Writer, summaries []batch.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Workers", "Samples", "Mean (s)", "StdDev (s)"})
	for _, s := range summaries {
		table.Append([]string{
			strconv.Itoa(s.Workers),
			strconv.Itoa(s.Samples),
			formatSeconds(s.MeanSeconds),
			formatSeconds(s.StdDevSeconds),
		})
	}
	table.Render()
}

// PrintBatchCSV writes the machine-readable aggregate rows.
func PrintBatchCSV(w io.Writer, summaries []batch.Summary) {
	fmt.Fprintln(w, "workers,time_mean,time_stddev")
	for _, s := range summaries {
		fmt.Fprintf(w, "%d,%s,%s\n", s.Workers, formatSeconds(s.MeanSeconds), formatSeconds(s.StdDevSeconds))
	}
}

// PrintTrialCSVHeader writes the header for per-traversal CSV output.
func PrintTrialCSVHeader(w io.Writer) {
	fmt.Fprintln(w, "workers,requests,elapsed")
}

// PrintTrialCSVRow writes one per-traversal CSV line.
func PrintTrialCSVRow(w io.Writer, r batch.TrialResult) {
	fmt.Fprintf(w, "%d,%d,%s\n", r.Workers, r.Requests, formatSeconds(r.Elapsed.Seconds()))
}

// PrintTrialProgress writes the per-trial progress line batch mode emits to
// stderr after each traversal.
func PrintTrialProgress(w io.Writer, run int, r batch.TrialResult) {
	fmt.Fprintf(w, "Finished: workers = %d, run = %d, requests = %d, elapsed = %v\n",
		r.Workers, run, r.Requests, r.Elapsed)
}

func formatSeconds(secs float64) string {
	return strconv.FormatFloat(secs, 'f', 6, 64)
}
