// Package config loads the CLI configuration file
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jzx17/rendezvous/pkg/executor"
)

// Config is the YAML configuration of the rendezvous CLI
type Config struct {
	// Tasks is the cohort size of one run
	Tasks int `yaml:"tasks"`

	Workload struct {
		// InputLength is the number of input values generated per task
		InputLength int `yaml:"input_length"`

		// ValueMin and ValueMax bound the generated input values
		ValueMin float64 `yaml:"value_min"`
		ValueMax float64 `yaml:"value_max"`

		// MinDelayMS and MaxDelayMS bound the artificial per-task delay,
		// in milliseconds
		MinDelayMS int `yaml:"min_delay_ms"`
		MaxDelayMS int `yaml:"max_delay_ms"`

		// Seed seeds input and delay generation; zero picks a time-based seed
		Seed int64 `yaml:"seed"`
	} `yaml:"workload"`

	Metrics struct {
		// Enabled starts the Prometheus listener when true
		Enabled bool `yaml:"enabled"`

		// Addr is the metrics listen address
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

// Default returns the default CLI configuration
func Default() *Config {
	cfg := &Config{Tasks: 4}

	defaults := executor.DefaultConfig()
	cfg.Workload.InputLength = defaults.InputLength
	cfg.Workload.ValueMin = defaults.ValueMin
	cfg.Workload.ValueMax = defaults.ValueMax
	cfg.Workload.MinDelayMS = int(defaults.MinDelay / time.Millisecond)
	cfg.Workload.MaxDelayMS = int(defaults.MaxDelay / time.Millisecond)

	cfg.Metrics.Addr = ":9090"
	return cfg
}

// Load reads and validates a YAML config file, applying defaults for
// omitted fields
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Tasks <= 0 {
		return fmt.Errorf("tasks must be positive, got %d", c.Tasks)
	}
	if c.Workload.InputLength <= 0 {
		return fmt.Errorf("workload.input_length must be positive, got %d", c.Workload.InputLength)
	}
	if c.Workload.ValueMin < 0 {
		return fmt.Errorf("workload.value_min must be non-negative, got %g", c.Workload.ValueMin)
	}
	if c.Workload.ValueMax <= c.Workload.ValueMin {
		return fmt.Errorf("workload.value_max must exceed value_min, got [%g, %g]",
			c.Workload.ValueMin, c.Workload.ValueMax)
	}
	if c.Workload.MinDelayMS < 0 || c.Workload.MaxDelayMS < c.Workload.MinDelayMS {
		return fmt.Errorf("workload delay bounds are invalid: [%dms, %dms]",
			c.Workload.MinDelayMS, c.Workload.MaxDelayMS)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}
	return nil
}

// ExecutorConfig converts the workload section into an executor config
func (c *Config) ExecutorConfig() *executor.Config {
	cfg := executor.DefaultConfig()
	cfg.InputLength = c.Workload.InputLength
	cfg.ValueMin = c.Workload.ValueMin
	cfg.ValueMax = c.Workload.ValueMax
	cfg.MinDelay = time.Duration(c.Workload.MinDelayMS) * time.Millisecond
	cfg.MaxDelay = time.Duration(c.Workload.MaxDelayMS) * time.Millisecond
	cfg.Seed = c.Workload.Seed
	return cfg
}
