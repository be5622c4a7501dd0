// Package batch runs repeated timed traversals and reduces them to summary
// statistics (mean and sample standard deviation of elapsed time per worker
// count). Trials are strictly sequential by design so that timing samples
// are not contaminated by contention between traversals.
package batch
