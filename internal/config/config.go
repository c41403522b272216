// Package config loads service settings by layering defaults, an optional
// YAML file, and environment variables.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds all service settings.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: json or text.
	LogFormat string `koanf:"log_format"`

	// ShutdownTimeoutSec bounds graceful shutdown.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`

	// RequestTimeoutSec bounds a single assessment request.
	RequestTimeoutSec int `koanf:"request_timeout_sec"`

	// DataDir is the root of the HBOM and climate fixture stores.
	DataDir string `koanf:"data_dir"`

	// KafkaEnabled turns the assessment summary publisher on.
	KafkaEnabled bool `koanf:"kafka_enabled"`

	// KafkaBrokers is a comma-separated broker list.
	KafkaBrokers string `koanf:"kafka_brokers"`

	// KafkaSinkTopic receives assessment summary events.
	KafkaSinkTopic string `koanf:"kafka_sink_topic"`

	// CurveSelection resolves duplicate curve documents per (component,
	// hazard): "first" or "priority".
	CurveSelection string `koanf:"curve_selection"`

	// MaxTreeDepth guards reconstruction against cyclic or corrupt records.
	MaxTreeDepth int `koanf:"max_tree_depth"`
}

// Default returns a Config with every field at its default.
func Default() *Config {
	return &Config{
		Addr:               ":8080",
		LogLevel:           "info",
		LogFormat:          "json",
		ShutdownTimeoutSec: 10,
		RequestTimeoutSec:  60,
		DataDir:            "data",
		KafkaEnabled:       false,
		KafkaBrokers:       "localhost:9092",
		KafkaSinkTopic:     "fragility-assessments",
		CurveSelection:     "first",
		MaxTreeDepth:       1024,
	}
}

// ShutdownTimeout returns the shutdown bound as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// RequestTimeout returns the per-request bound as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// Brokers splits the comma-separated broker list, trimming whitespace.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// validate rejects configurations the service cannot run with.
func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.ShutdownTimeoutSec <= 0 {
		return errors.New("shutdown_timeout_sec must be positive")
	}
	if c.RequestTimeoutSec <= 0 {
		return errors.New("request_timeout_sec must be positive")
	}
	switch c.CurveSelection {
	case "first", "priority":
	default:
		return errors.New(`curve_selection must be "first" or "priority"`)
	}
	if c.KafkaEnabled {
		if len(c.Brokers()) == 0 {
			return errors.New("kafka_brokers is required when kafka_enabled")
		}
		if c.KafkaSinkTopic == "" {
			return errors.New("kafka_sink_topic is required when kafka_enabled")
		}
	}
	return nil
}
