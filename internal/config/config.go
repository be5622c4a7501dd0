package config

import (
	"fmt"
	"net/url"
	"time"
)

// SetupError reports invalid configuration detected before any traversal
// begins. It always aborts the command; nothing has been measured yet.
type SetupError struct {
	Reason string
}

func (e *SetupError) Error() string { return "invalid setup: " + e.Reason }

// Config carries the settings shared by the run and batch subcommands.
type Config struct {
	URL          string        `mapstructure:"url"`
	Workers      int           `mapstructure:"workers"`
	WorkerCounts []int         `mapstructure:"worker_counts"`
	Samples      int           `mapstructure:"samples"`
	Quiet        bool          `mapstructure:"quiet"`
	PerTrial     bool          `mapstructure:"per_traversal_stats"`
	CSV          bool          `mapstructure:"csv"`
	JSONOutput   bool          `mapstructure:"json_output"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Rate         int           `mapstructure:"rate"`
	LockFile     string        `mapstructure:"lock_file"`
	Tracing      TracingConfig `mapstructure:"tracing"`
}

// TracingConfig controls optional OpenTelemetry export.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
}

// ParseURL validates and parses the root URL.
func (c *Config) ParseURL() (*url.URL, error) {
	if c.URL == "" {
		return nil, &SetupError{Reason: "root URL is required"}
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, &SetupError{Reason: fmt.Sprintf("invalid root URL %q: %v", c.URL, err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &SetupError{Reason: fmt.Sprintf("root URL %q must use http or https", c.URL)}
	}
	if u.Host == "" {
		return nil, &SetupError{Reason: fmt.Sprintf("root URL %q has no host", c.URL)}
	}
	return u, nil
}

// ValidateRun checks the settings used by the run subcommand.
func (c *Config) ValidateRun() error {
	if _, err := c.ParseURL(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return &SetupError{Reason: fmt.Sprintf("workers must be at least 1, got %d", c.Workers)}
	}
	return c.validateCommon()
}

// ValidateBatch checks the settings used by the batch subcommand.
func (c *Config) ValidateBatch() error {
	if _, err := c.ParseURL(); err != nil {
		return err
	}
	if len(c.WorkerCounts) == 0 {
		return &SetupError{Reason: "at least one worker count is required"}
	}
	for _, w := range c.WorkerCounts {
		if w < 1 {
			return &SetupError{Reason: fmt.Sprintf("worker counts must be at least 1, got %d", w)}
		}
	}
	if c.Samples < 1 {
		return &SetupError{Reason: fmt.Sprintf("samples must be at least 1, got %d", c.Samples)}
	}
	return c.validateCommon()
}

func (c *Config) validateCommon() error {
	if c.Timeout < 0 {
		return &SetupError{Reason: "timeout must not be negative"}
	}
	if c.Rate < 0 {
		return &SetupError{Reason: "rate must not be negative"}
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return &SetupError{Reason: fmt.Sprintf("tracing sample_rate must be between 0.0 and 1.0, got %g", c.Tracing.SampleRate)}
	}
	return nil
}
