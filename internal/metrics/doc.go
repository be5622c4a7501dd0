// Package metrics collects per-request latency and outcome counts for a
// single traversal.
//
// The [Collector] implements traverse.Sink, so it can be attached to a
// traversal directly (optionally fanned out alongside a printing sink).
// Latencies are tracked in an HDR histogram from 1µs to 60s at 3 significant
// figures, with separate histograms per resource kind so directory listings
// (PROPFIND) and file probes (HEAD) can be compared in the final report.
package metrics
