// Package config handles YAML configuration parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"stopwatch/internal/collector"
)

// Config is the root configuration structure.
type Config struct {
	Benchmark  BenchmarkConfig       `yaml:"benchmark"`
	Execution  ExecutionConfig       `yaml:"execution,omitempty"`
	Thresholds *collector.Thresholds `yaml:"thresholds,omitempty"`
}

// BenchmarkConfig names the command being timed.
type BenchmarkConfig struct {
	Name    string            `yaml:"name"`
	Command []string          `yaml:"command"`
	Dir     string            `yaml:"dir,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// ExecutionConfig controls how trials are run.
type ExecutionConfig struct {
	Iterations      int           `yaml:"iterations"`
	Warmup          int           `yaml:"warmup"`
	Rate            float64       `yaml:"rate"` // trials per second, 0 = unpaced
	ContinueOnError bool          `yaml:"continue_on_error"`
	Timeout         time.Duration `yaml:"timeout"` // per trial, 0 = none
}

// DefaultIterations is used when neither the file nor the flags set a count.
const DefaultIterations = 10

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() error {
	var errs error
	if len(c.Benchmark.Command) == 0 || c.Benchmark.Command[0] == "" {
		errs = multierr.Append(errs, errors.New("benchmark.command is required"))
	}
	if c.Execution.Iterations < 0 {
		errs = multierr.Append(errs, fmt.Errorf("execution.iterations must be >= 0, got %d", c.Execution.Iterations))
	}
	if c.Execution.Warmup < 0 {
		errs = multierr.Append(errs, fmt.Errorf("execution.warmup must be >= 0, got %d", c.Execution.Warmup))
	}
	if c.Execution.Rate < 0 {
		errs = multierr.Append(errs, fmt.Errorf("execution.rate must be >= 0, got %v", c.Execution.Rate))
	}
	if c.Execution.Timeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("execution.timeout must be >= 0, got %v", c.Execution.Timeout))
	}
	return errs
}

// Name returns the benchmark name, falling back to the command.
func (c *Config) Name() string {
	if c.Benchmark.Name != "" {
		return c.Benchmark.Name
	}
	if len(c.Benchmark.Command) > 0 {
		return c.Benchmark.Command[0]
	}
	return ""
}

// TotalIterations returns warmup plus measured iterations, applying the default.
func (c *Config) TotalIterations() int {
	n := c.Execution.Iterations
	if n == 0 {
		n = DefaultIterations
	}
	return n + c.Execution.Warmup
}
