package config

import (
	"time"

	"github.com/spf13/pflag"
)

// RegisterCommonFlags adds the flags shared by run and batch.
func RegisterCommonFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to configuration file (JSON or YAML)")
	flags.Duration("timeout", 30*time.Second, "Per-request timeout")
	flags.IntP("rate", "r", 0, "Requests per second limit across workers (0 means unlimited)")
	flags.Bool("json-output", false, "Emit a JSON report instead of plain text")
	flags.String("lock-file", "", "Advisory lock file preventing concurrent benchmark runs")
	flags.Bool("trace", false, "Export OpenTelemetry traces (see tracing config)")
}

// RegisterRunFlags adds the run-only flags.
func RegisterRunFlags(flags *pflag.FlagSet) {
	flags.BoolP("quiet", "q", false, "Do not print details on each request as it's completed")
}

// RegisterBatchFlags adds the batch-only flags.
func RegisterBatchFlags(flags *pflag.FlagSet) {
	flags.IntP("samples", "s", 10, "Number of traversals to make for each number of workers")
	flags.BoolP("per-traversal-stats", "T", false,
		"Emit a CSV line for each traversal rather than for each set of traversals per worker quantity")
	flags.Bool("csv", false, "Emit aggregate rows as CSV instead of a table")
}

// applyFlagOverrides copies explicitly-set flag values onto cfg. Positional
// arguments (URL, worker counts) are handled by the commands themselves.
func applyFlagOverrides(cfg *Config, flags *pflag.FlagSet) {
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("rate") {
		cfg.Rate, _ = flags.GetInt("rate")
	}
	if flags.Changed("json-output") {
		cfg.JSONOutput, _ = flags.GetBool("json-output")
	}
	if flags.Changed("lock-file") {
		cfg.LockFile, _ = flags.GetString("lock-file")
	}
	if flags.Changed("trace") {
		cfg.Tracing.Enabled, _ = flags.GetBool("trace")
	}
	if flags.Changed("quiet") {
		cfg.Quiet, _ = flags.GetBool("quiet")
	}
	if flags.Changed("samples") {
		cfg.Samples, _ = flags.GetInt("samples")
	}
	if flags.Changed("per-traversal-stats") {
		cfg.PerTrial, _ = flags.GetBool("per-traversal-stats")
	}
	if flags.Changed("csv") {
		cfg.CSV, _ = flags.GetBool("csv")
	}
}
