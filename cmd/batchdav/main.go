package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/jwodder/batchdav/internal/config"
	"github.com/jwodder/batchdav/internal/davclient"
	"github.com/jwodder/batchdav/internal/tracing"
	"github.com/jwodder/batchdav/internal/traverse"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "batchdav",
		Short: "Traverse WebDAV hierarchies using concurrent workers",
		Long: "batchdav benchmarks how traversal throughput of a WebDAV hierarchy\n" +
			"scales with the number of concurrent workers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand(), newBatchCommand())
	return root
}

// loadConfig merges defaults, the optional --config file, and explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	env.Apply(cfg)
	return cfg, nil
}

// session holds the collaborators shared by both subcommands for the
// duration of one invocation.
type session struct {
	client   traverse.Client
	root     *url.URL
	provider *tracing.Provider
	lock     *flock.Flock
}

// openSession sets up the lock file, tracing, and the WebDAV client.
// Callers must invoke close when done.
func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	s := &session{}

	if cfg.LockFile != "" {
		s.lock = flock.New(cfg.LockFile)
		locked, err := s.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", cfg.LockFile, err)
		}
		if !locked {
			return nil, fmt.Errorf("another benchmark holds %s; concurrent runs would corrupt timing", cfg.LockFile)
		}
	}

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.provider = provider

	root, err := cfg.ParseURL()
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.root = root

	client, err := davclient.New(root,
		davclient.WithTimeout(cfg.Timeout),
		davclient.WithRateLimit(cfg.Rate),
	)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.client = client
	if cfg.Tracing.Enabled {
		s.client = tracing.WrapClient(client, provider.Tracer())
	}

	return s, nil
}

func (s *session) close(ctx context.Context) {
	if s.provider != nil {
		if err := s.provider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: tracing shutdown: %v\n", err)
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: release lock: %v\n", err)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
