// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/roomstyle/internal/recommend/embedding"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Embedding selects and parameterizes the embedding strategy.
	Embedding embedding.Config `json:"embedding" koanf:"embedding"`

	// Training contains the refit schedule and model retention.
	Training TrainingConfig `json:"training" koanf:"training"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`

	// Seed overrides the seed of the embedding strategy when non-zero.
	Seed int64 `json:"seed" koanf:"seed"`
}

// TrainingConfig contains training schedule parameters.
type TrainingConfig struct {
	// Interval is the time between scheduled refits. Zero disables them.
	// Default: 24h.
	Interval time.Duration `json:"interval" koanf:"interval"`

	// Timeout bounds a single fit.
	// Default: 10m.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// RetainVersions is the number of saved model versions kept on disk.
	// Default: 3.
	RetainVersions int `json:"retain_versions" koanf:"retain_versions"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is used when a query does not set TopN.
	// Default: 10.
	DefaultTopN int `json:"default_top_n" koanf:"default_top_n"`

	// MaxTopN is the largest TopN the API accepts. The engine itself never
	// truncates below a requested TopN.
	// Default: 100.
	MaxTopN int `json:"max_top_n" koanf:"max_top_n"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled turns on the recommendation response cache.
	// Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries is the maximum number of cached responses.
	// Default: 1000.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Embedding: embedding.DefaultConfig(),
		Training: TrainingConfig{
			Interval:       24 * time.Hour,
			Timeout:        10 * time.Minute,
			RetainVersions: 3,
		},
		Limits: LimitsConfig{
			DefaultTopN: 10,
			MaxTopN:     100,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1000,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := embedding.New(c.Embedding); err != nil {
		return fmt.Errorf("embedding.strategy: %w", err)
	}

	if c.Training.Interval < 0 {
		return fmt.Errorf("training.interval must be non-negative, got %v", c.Training.Interval)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.RetainVersions < 1 {
		return fmt.Errorf("training.retain_versions must be positive, got %d", c.Training.RetainVersions)
	}

	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d", c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}

	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive when cache is enabled, got %d", c.Cache.MaxEntries)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

// strategyConfig returns the embedding configuration with Seed applied.
func (c *Config) strategyConfig() embedding.Config {
	cfg := c.Embedding
	if c.Seed != 0 {
		cfg.Autoencoder.Seed = c.Seed
		cfg.Factorization.Seed = c.Seed
	}
	return cfg
}

// resolveTopN applies the default to a requested size.
func (c *Config) resolveTopN(n int) int {
	if n <= 0 {
		return c.Limits.DefaultTopN
	}
	return n
}
