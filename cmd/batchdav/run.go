package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jwodder/batchdav/internal/batch"
	"github.com/jwodder/batchdav/internal/config"
	"github.com/jwodder/batchdav/internal/metrics"
	"github.com/jwodder/batchdav/internal/output"
	"github.com/jwodder/batchdav/internal/tracing"
	"github.com/jwodder/batchdav/internal/traverse"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] <url> <workers>",
		Short: "Traverse a hierarchy once",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.URL = args[0]
			workers, err := strconv.Atoi(args[1])
			if err != nil {
				return &config.SetupError{Reason: fmt.Sprintf("workers must be an integer, got %q", args[1])}
			}
			cfg.Workers = workers
			if err := cfg.ValidateRun(); err != nil {
				return err
			}
			return runOnce(cfg)
		},
	}
	config.RegisterCommonFlags(cmd.Flags())
	config.RegisterRunFlags(cmd.Flags())
	return cmd
}

func runOnce(cfg *config.Config) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close(context.Background())

	collector := metrics.NewCollector()
	sinks := traverse.MultiSink{collector}
	if !cfg.Quiet && !cfg.JSONOutput {
		sinks = append(sinks, output.NewEventPrinter(os.Stdout))
	}

	runCtx, span := tracing.StartTraversalSpan(ctx, s.provider.Tracer(), s.root.String(), cfg.Workers)
	result, err := batch.RunTrial(runCtx, s.client, s.root, cfg.Workers, sinks)
	tracing.EndSpan(span, err)
	if err != nil {
		return err
	}

	stats := collector.Stats(result.Elapsed)
	if cfg.JSONOutput {
		return output.PrintJSONReport(os.Stdout, output.RunReport{
			RunID:   output.NewRunID(),
			URL:     s.root.String(),
			Workers: cfg.Workers,
			Stats:   stats,
		})
	}
	output.PrintRunReport(os.Stdout, cfg.Workers, stats)
	return nil
}
