package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jwodder/batchdav/internal/batch"
	"github.com/jwodder/batchdav/internal/config"
	"github.com/jwodder/batchdav/internal/output"
)

func newBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [flags] <url> <workers...>",
		Short: "Traverse a hierarchy multiple times and summarize the results",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.URL = args[0]
			for _, arg := range args[1:] {
				workers, err := strconv.Atoi(arg)
				if err != nil {
					return &config.SetupError{Reason: fmt.Sprintf("worker counts must be integers, got %q", arg)}
				}
				cfg.WorkerCounts = append(cfg.WorkerCounts, workers)
			}
			if err := cfg.ValidateBatch(); err != nil {
				return err
			}
			return runBatch(cfg)
		},
	}
	config.RegisterCommonFlags(cmd.Flags())
	config.RegisterBatchFlags(cmd.Flags())
	return cmd
}

func runBatch(cfg *config.Config) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	opts := []batch.Option{batch.WithSamples(cfg.Samples)}
	if cfg.PerTrial {
		output.PrintTrialCSVHeader(os.Stdout)
		opts = append(opts, batch.WithTrialObserver(func(run int, r batch.TrialResult) {
			output.PrintTrialCSVRow(os.Stdout, r)
		}))
	} else {
		opts = append(opts, batch.WithTrialObserver(func(run int, r batch.TrialResult) {
			output.PrintTrialProgress(os.Stderr, run, r)
		}))
	}

	agg := batch.NewAggregator(opts...)
	summaries, err := agg.Run(ctx, s.client, s.root, cfg.WorkerCounts)
	if err != nil {
		return err
	}

	if cfg.PerTrial {
		return nil
	}
	switch {
	case cfg.JSONOutput:
		return output.PrintJSONReport(os.Stdout, output.BatchReport{
			RunID:     output.NewRunID(),
			URL:       s.root.String(),
			Samples:   cfg.Samples,
			Summaries: summaries,
		})
	case cfg.CSV:
		output.PrintBatchCSV(os.Stdout, summaries)
	default:
		output.PrintBatchTable(os.Stdout, summaries)
	}
	return nil
}
