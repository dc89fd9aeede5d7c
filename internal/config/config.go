// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/tombee/cmdchain/internal/log"
	"github.com/tombee/cmdchain/internal/tracing"
	chainerrors "github.com/tombee/cmdchain/pkg/errors"
)

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config represents the complete cmdchain configuration. Chains are
// registered in code and never read from here.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Chain   ChainConfig   `yaml:"chain"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	// Environment: CMDCHAIN_LOG_LEVEL (LOG_LEVEL and CMDCHAIN_DEBUG seed the default)
	// Default: info
	Level string `yaml:"level" env:"CMDCHAIN_LOG_LEVEL"`

	// Format sets the output format (json, text).
	// Environment: CMDCHAIN_LOG_FORMAT
	// Default: text
	Format string `yaml:"format" env:"CMDCHAIN_LOG_FORMAT"`

	// AddSource adds source file and line information to logs.
	// Environment: CMDCHAIN_LOG_SOURCE
	// Default: false
	AddSource bool `yaml:"add_source" env:"CMDCHAIN_LOG_SOURCE"`

	// File appends logs to a file instead of stderr.
	// Environment: CMDCHAIN_LOG_FILE
	File string `yaml:"file,omitempty" env:"CMDCHAIN_LOG_FILE"`
}

// ChainConfig configures chain execution.
type ChainConfig struct {
	// ContinueOnMemberFailure runs the remaining members after one fails.
	// Environment: CMDCHAIN_CONTINUE_ON_MEMBER_FAILURE
	// Default: true
	ContinueOnMemberFailure bool `yaml:"continue_on_member_failure" env:"CMDCHAIN_CONTINUE_ON_MEMBER_FAILURE"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile writes all metrics in Prometheus text format to this path
	// when the process exits, for node_exporter's textfile collector.
	// Environment: CMDCHAIN_METRICS_TEXTFILE
	Textfile string `yaml:"textfile,omitempty" env:"CMDCHAIN_METRICS_TEXTFILE"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled turns on span export.
	// Environment: CMDCHAIN_TRACING_ENABLED
	// Default: false
	Enabled bool `yaml:"enabled" env:"CMDCHAIN_TRACING_ENABLED"`

	// Exporter is "stdout" or "none".
	// Environment: CMDCHAIN_TRACING_EXPORTER
	// Default: stdout
	Exporter string `yaml:"exporter" env:"CMDCHAIN_TRACING_EXPORTER"`

	// PrettyPrint indents exported spans.
	// Environment: CMDCHAIN_TRACING_PRETTY
	PrettyPrint bool `yaml:"pretty_print" env:"CMDCHAIN_TRACING_PRETTY"`
}

// Default returns the built-in configuration, with log settings seeded
// from the generic logging environment variables.
func Default() *Config {
	logDefaults := log.FromEnv()

	return &Config{
		Log: LogConfig{
			Level:     logDefaults.Level,
			Format:    string(logDefaults.Format),
			AddSource: logDefaults.AddSource,
		},
		Chain: ChainConfig{
			ContinueOnMemberFailure: true,
		},
		Tracing: TracingConfig{
			Exporter: tracing.ExporterStdout,
		},
	}
}

// Load reads configuration from a YAML file, then overlays CMDCHAIN_*
// environment variables and validates the result.
//
// An empty configPath means the default location; a missing file there
// is not an error. An explicit configPath must exist.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	explicit := configPath != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, &chainerrors.ConfigError{
				Key:    "config_file",
				Reason: "failed to resolve default config path",
				Cause:  err,
			}
		}
		configPath = p
	}

	if err := cfg.loadFromFile(configPath); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, &chainerrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, &chainerrors.ConfigError{
			Key:    "environment",
			Reason: "failed to read environment overrides",
			Cause:  err,
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, &chainerrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// ParseEnv overlays environment variables onto target. Variables that are
// unset leave the current value alone.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return chainerrors.Wrap(err, "parse env")
	}
	return nil
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return chainerrors.Wrap(err, "failed to get home directory")
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return chainerrors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return chainerrors.Wrapf(err, "failed to parse YAML in %s", path)
	}

	return nil
}

func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Tracing.Exporter = strings.ToLower(strings.TrimSpace(c.Tracing.Exporter))
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = tracing.ExporterStdout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if !log.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Sprintf("log.level must be one of [trace, debug, info, warn, error], got %q", c.Log.Level))
	}
	switch log.Format(c.Log.Format) {
	case log.FormatJSON, log.FormatText:
	default:
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	switch c.Tracing.Exporter {
	case tracing.ExporterStdout, tracing.ExporterNone:
	default:
		errs = append(errs, fmt.Sprintf("tracing.exporter must be one of [stdout, none], got %q", c.Tracing.Exporter))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// LoggerConfig converts the log section into a logger configuration
// writing to output.
func (c *Config) LoggerConfig(output io.Writer) *log.Config {
	return &log.Config{
		Level:     c.Log.Level,
		Format:    log.Format(c.Log.Format),
		Output:    output,
		AddSource: c.Log.AddSource,
	}
}

// TracerConfig converts the tracing section into a provider configuration.
func (c *Config) TracerConfig(serviceVersion string) tracing.Config {
	tc := tracing.DefaultConfig()
	tc.Enabled = c.Tracing.Enabled
	tc.Exporter = c.Tracing.Exporter
	tc.PrettyPrint = c.Tracing.PrettyPrint
	tc.ServiceVersion = serviceVersion
	return tc
}
