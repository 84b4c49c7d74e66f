// Package models defines data structures shared across the curate pipeline.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Token budget and pipeline defaults. These mirror the documented
// configuration constants and can be overridden via config file or CLI flags.
const (
	DefaultSoftCap       = 750_000
	DefaultHardCap       = 1_000_000
	DefaultOversizeLimit = 1 * 1024 * 1024 // bytes
	DefaultConcurrency   = 3
	DefaultMaxAttempts   = 5
	DefaultRetryBase     = 1000 * time.Millisecond
	DefaultRetryJitter   = 1000 * time.Millisecond
	DefaultMaxTextBytes  = 100 * 1024 * 1024
)

// Config holds runtime configuration for scan, process, and selection
// operations. Values come from CLI flags, optionally seeded from a YAML file.
type Config struct {
	SoftCap       int           `yaml:"soft_cap"`
	HardCap       int           `yaml:"hard_cap"`
	OversizeLimit int64         `yaml:"oversize_limit_bytes"`
	Concurrency   int           `yaml:"concurrency"`
	MaxAttempts   int           `yaml:"max_attempts"`
	RetryBase     time.Duration `yaml:"retry_base"`
	RetryJitter   time.Duration `yaml:"retry_jitter"`
	MaxTextBytes  int           `yaml:"max_text_bytes"`
}

// DefaultConfig returns a Config populated with the documented defaults.
func DefaultConfig() Config {
	return Config{
		SoftCap:       DefaultSoftCap,
		HardCap:       DefaultHardCap,
		OversizeLimit: DefaultOversizeLimit,
		Concurrency:   DefaultConcurrency,
		MaxAttempts:   DefaultMaxAttempts,
		RetryBase:     DefaultRetryBase,
		RetryJitter:   DefaultRetryJitter,
		MaxTextBytes:  DefaultMaxTextBytes,
	}
}

// LoadConfig reads a YAML config file and overlays it on the defaults.
// Zero-valued fields in the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if overlay.SoftCap > 0 {
		cfg.SoftCap = overlay.SoftCap
	}
	if overlay.HardCap > 0 {
		cfg.HardCap = overlay.HardCap
	}
	if overlay.OversizeLimit > 0 {
		cfg.OversizeLimit = overlay.OversizeLimit
	}
	if overlay.Concurrency > 0 {
		cfg.Concurrency = overlay.Concurrency
	}
	if overlay.MaxAttempts > 0 {
		cfg.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.RetryBase > 0 {
		cfg.RetryBase = overlay.RetryBase
	}
	if overlay.RetryJitter > 0 {
		cfg.RetryJitter = overlay.RetryJitter
	}
	if overlay.MaxTextBytes > 0 {
		cfg.MaxTextBytes = overlay.MaxTextBytes
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks invariants that must hold for any usable configuration.
func (c Config) Validate() error {
	if c.SoftCap <= 0 || c.HardCap <= 0 {
		return fmt.Errorf("token caps must be positive (soft=%d hard=%d)", c.SoftCap, c.HardCap)
	}
	if c.SoftCap > c.HardCap {
		return fmt.Errorf("soft cap %d exceeds hard cap %d", c.SoftCap, c.HardCap)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	return nil
}
