package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults applied before the config file and flags are merged in.
func defaultConfig() *Config {
	return &Config{
		Samples: 10,
		Timeout: 30 * time.Second,
		Tracing: TracingConfig{Protocol: "grpc", SampleRate: 1.0},
	}
}

// Load builds a Config from an optional config file (YAML or JSON, read via
// viper) overlaid with any flags the user set explicitly. Flag values win
// over file values, which win over defaults.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	cfg := defaultConfig()

	if configPath != "" {
		v := viper.New()
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if flags != nil {
		applyFlagOverrides(cfg, flags)
	}

	return cfg, nil
}

// Env holds process-level settings taken from BATCHDAV_* environment
// variables. MaxProcs bounds the physical parallelism available to the
// scheduler; it does not change the logical worker count of a traversal.
type Env struct {
	MaxProcs int    `envconfig:"MAXPROCS"`
	LockFile string `envconfig:"LOCK_FILE"`
}

// LoadEnv reads the BATCHDAV_* environment variables.
func LoadEnv() (Env, error) {
	var e Env
	if err := envconfig.Process("batchdav", &e); err != nil {
		return Env{}, fmt.Errorf("process environment: %w", err)
	}
	return e, nil
}

// Apply installs the environment settings on the current process and fills
// any gaps in cfg.
func (e Env) Apply(cfg *Config) {
	if e.MaxProcs > 0 {
		runtime.GOMAXPROCS(e.MaxProcs)
	}
	if cfg.LockFile == "" {
		cfg.LockFile = e.LockFile
	}
}
