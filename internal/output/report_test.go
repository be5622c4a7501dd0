package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jwodder/batchdav/internal/batch"
	"github.com/jwodder/batchdav/internal/metrics"
)

func sampleStats() metrics.Stats {
	return metrics.Stats{
		Total:          10,
		Collections:    3,
		Files:          6,
		Failures:       1,
		Duration:       2 * time.Second,
		RequestsPerSec: 5,
		MeanLatencyMs:  12.5,
	}
}

func TestNewRunIDIsUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Errorf("run IDs not unique: %q vs %q", a, b)
	}
	if len(a) != 26 {
		t.Errorf("run ID %q has length %d, want 26", a, len(a))
	}
}

func TestPrintJSONRunReport(t *testing.T) {
	var buf bytes.Buffer
	report := RunReport{
		RunID:   NewRunID(),
		URL:     "https://dav.test/root/",
		Workers: 8,
		Stats:   sampleStats(),
	}
	if err := PrintJSONReport(&buf, report); err != nil {
		t.Fatalf("PrintJSONReport: %v", err)
	}

	doc := buf.String()
	if !gjson.Valid(doc) {
		t.Fatalf("invalid JSON: %s", doc)
	}
	if got := gjson.Get(doc, "workers").Int(); got != 8 {
		t.Errorf("workers = %d, want 8", got)
	}
	if got := gjson.Get(doc, "stats.total").Int(); got != 10 {
		t.Errorf("stats.total = %d, want 10", got)
	}
	if got := gjson.Get(doc, "stats.failures").Int(); got != 1 {
		t.Errorf("stats.failures = %d, want 1", got)
	}
	if got := gjson.Get(doc, "stats.mean_latency_ms").Float(); got != 12.5 {
		t.Errorf("stats.mean_latency_ms = %g, want 12.5", got)
	}
	if gjson.Get(doc, "run_id").String() == "" {
		t.Error("run_id missing")
	}
	// Raw durations stay out of the document; only the ms fields appear.
	if gjson.Get(doc, "stats.Duration").Exists() {
		t.Error("raw duration field leaked into JSON")
	}
}

func TestPrintJSONBatchReport(t *testing.T) {
	var buf bytes.Buffer
	report := BatchReport{
		RunID:   NewRunID(),
		URL:     "https://dav.test/root/",
		Samples: 10,
		Summaries: []batch.Summary{
			{Workers: 1, Samples: 10, MeanSeconds: 4.2, StdDevSeconds: 0.3},
			{Workers: 5, Samples: 10, MeanSeconds: 1.1, StdDevSeconds: 0.05},
		},
	}
	if err := PrintJSONReport(&buf, report); err != nil {
		t.Fatalf("PrintJSONReport: %v", err)
	}

	doc := buf.String()
	if got := gjson.Get(doc, "summaries.#").Int(); got != 2 {
		t.Fatalf("summaries.# = %d, want 2", got)
	}
	if got := gjson.Get(doc, "summaries.1.workers").Int(); got != 5 {
		t.Errorf("summaries[1].workers = %d, want 5", got)
	}
	if got := gjson.Get(doc, "summaries.0.time_mean_s").Float(); got != 4.2 {
		t.Errorf("summaries[0].time_mean_s = %g, want 4.2", got)
	}
}

func TestPrintRunReport(t *testing.T) {
	var buf bytes.Buffer
	PrintRunReport(&buf, 8, sampleStats())
	out := buf.String()
	if !strings.Contains(out, "Performed 10 requests with 8 workers in 2s") {
		t.Errorf("missing summary line:\n%s", out)
	}
	if !strings.Contains(out, "Failed requests:   1") {
		t.Errorf("missing failure line:\n%s", out)
	}
	if !strings.Contains(out, "Requests/sec:      5.00") {
		t.Errorf("missing throughput line:\n%s", out)
	}
}

func TestPrintRunReportOmitsFailuresWhenClean(t *testing.T) {
	var buf bytes.Buffer
	stats := sampleStats()
	stats.Failures = 0
	PrintRunReport(&buf, 2, stats)
	if strings.Contains(buf.String(), "Failed requests") {
		t.Error("failure line printed for clean run")
	}
}

func TestPrintBatchCSV(t *testing.T) {
	var buf bytes.Buffer
	PrintBatchCSV(&buf, []batch.Summary{
		{Workers: 1, Samples: 10, MeanSeconds: 4.2, StdDevSeconds: 0.3},
		{Workers: 5, Samples: 10, MeanSeconds: 1.1, StdDevSeconds: 0},
	})
	want := "workers,time_mean,time_stddev\n" +
		"1,4.200000,0.300000\n" +
		"5,1.100000,0.000000\n"
	if got := buf.String(); got != want {
		t.Errorf("CSV mismatch:\ngot:\n%swant:\n%s", got, want)
	}
}

func TestPrintTrialCSV(t *testing.T) {
	var buf bytes.Buffer
	PrintTrialCSVHeader(&buf)
	PrintTrialCSVRow(&buf, batch.TrialResult{Workers: 3, Requests: 120, Elapsed: 1500 * time.Millisecond})
	want := "workers,requests,elapsed\n3,120,1.500000\n"
	if got := buf.String(); got != want {
		t.Errorf("trial CSV mismatch:\ngot:\n%swant:\n%s", got, want)
	}
}

func TestPrintTrialProgress(t *testing.T) {
	var buf bytes.Buffer
	PrintTrialProgress(&buf, 4, batch.TrialResult{Workers: 3, Requests: 120, Elapsed: time.Second})
	want := "Finished: workers = 3, run = 4, requests = 120, elapsed = 1s\n"
	if got := buf.String(); got != want {
		t.Errorf("progress line = %q, want %q", got, want)
	}
}

func TestPrintBatchTable(t *testing.T) {
	var buf bytes.Buffer
	PrintBatchTable(&buf, []batch.Summary{
		{Workers: 2, Samples: 10, MeanSeconds: 3.5, StdDevSeconds: 0.1},
	})
	out := buf.String()
	for _, want := range []string{"WORKERS", "SAMPLES", "2", "3.500000"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
