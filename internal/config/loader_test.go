package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

func writeConfigFile(t *testing.T, doc map[string]any) string {
	t.Helper()
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "batchdav.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Samples != 10 {
		t.Errorf("Samples = %d, want 10", cfg.Samples)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Tracing.Protocol != "grpc" || cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("tracing defaults = %+v", cfg.Tracing)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"timeout":   "5s",
		"rate":      25,
		"lock_file": "/tmp/batchdav.lock",
		"tracing": map[string]any{
			"enabled":     true,
			"endpoint":    "collector.test:4317",
			"sample_rate": 0.5,
		},
	})

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.Rate != 25 {
		t.Errorf("Rate = %d, want 25", cfg.Rate)
	}
	if cfg.LockFile != "/tmp/batchdav.lock" {
		t.Errorf("LockFile = %q", cfg.LockFile)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Endpoint != "collector.test:4317" || cfg.Tracing.SampleRate != 0.5 {
		t.Errorf("tracing = %+v", cfg.Tracing)
	}
	// Settings the file omits keep their defaults.
	if cfg.Samples != 10 {
		t.Errorf("Samples = %d, want 10", cfg.Samples)
	}
}

func TestLoadFlagsWinOverFile(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"timeout": "5s",
		"rate":    25,
	})

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterCommonFlags(flags)
	if err := flags.Parse([]string{"--rate=100", "--json-output"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rate != 100 {
		t.Errorf("Rate = %d, want 100 (flag over file)", cfg.Rate)
	}
	if !cfg.JSONOutput {
		t.Error("JSONOutput not set from flag")
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s (file value kept)", cfg.Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("BATCHDAV_MAXPROCS", "2")
	t.Setenv("BATCHDAV_LOCK_FILE", "/tmp/env.lock")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if env.MaxProcs != 2 {
		t.Errorf("MaxProcs = %d, want 2", env.MaxProcs)
	}
	if env.LockFile != "/tmp/env.lock" {
		t.Errorf("LockFile = %q", env.LockFile)
	}
}

func TestEnvApply(t *testing.T) {
	old := runtime.GOMAXPROCS(0)
	defer runtime.GOMAXPROCS(old)

	cfg := defaultConfig()
	Env{MaxProcs: 2, LockFile: "/tmp/env.lock"}.Apply(cfg)
	if got := runtime.GOMAXPROCS(0); got != 2 {
		t.Errorf("GOMAXPROCS = %d, want 2", got)
	}
	if cfg.LockFile != "/tmp/env.lock" {
		t.Errorf("LockFile = %q, want env fallback", cfg.LockFile)
	}

	// An explicit lock file is not overwritten by the environment.
	cfg.LockFile = "/tmp/explicit.lock"
	Env{LockFile: "/tmp/env.lock"}.Apply(cfg)
	if cfg.LockFile != "/tmp/explicit.lock" {
		t.Errorf("LockFile = %q, want explicit value kept", cfg.LockFile)
	}
}
