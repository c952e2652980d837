// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}

	t.Run("embedding defaults", func(t *testing.T) {
		ae := cfg.Embedding.Autoencoder
		if ae.HiddenDim != 128 || ae.EmbeddingDim != 64 {
			t.Errorf("autoencoder widths = %d/%d, want 128/64", ae.HiddenDim, ae.EmbeddingDim)
		}
		if ae.Epochs != 50 || ae.BatchSize != 32 {
			t.Errorf("autoencoder schedule = %d epochs x %d batch, want 50 x 32", ae.Epochs, ae.BatchSize)
		}
		if ae.ValidationSplit != 0.2 || ae.Dropout != 0.2 {
			t.Errorf("autoencoder split/dropout = %v/%v, want 0.2/0.2", ae.ValidationSplit, ae.Dropout)
		}
	})

	t.Run("limits", func(t *testing.T) {
		if cfg.Limits.DefaultTopN != 10 {
			t.Errorf("Limits.DefaultTopN = %d, want 10", cfg.Limits.DefaultTopN)
		}
		if cfg.Limits.MaxTopN < cfg.Limits.DefaultTopN {
			t.Errorf("Limits.MaxTopN = %d < DefaultTopN", cfg.Limits.MaxTopN)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"factorization", func(c *Config) { c.Embedding.Strategy = "factorization" }, false},
		{"unknown strategy", func(c *Config) { c.Embedding.Strategy = "pca" }, true},
		{"negative interval", func(c *Config) { c.Training.Interval = -time.Second }, true},
		{"zero interval disables schedule", func(c *Config) { c.Training.Interval = 0 }, false},
		{"zero timeout", func(c *Config) { c.Training.Timeout = 0 }, true},
		{"zero retain", func(c *Config) { c.Training.RetainVersions = 0 }, true},
		{"zero default top n", func(c *Config) { c.Limits.DefaultTopN = 0 }, true},
		{"max below default", func(c *Config) { c.Limits.MaxTopN = 5 }, true},
		{"cache without entries", func(c *Config) { c.Cache.MaxEntries = 0 }, true},
		{"disabled cache without entries", func(c *Config) {
			c.Cache.Enabled = false
			c.Cache.MaxEntries = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()

	clone.Limits.DefaultTopN = 99
	clone.Embedding.Autoencoder.Epochs = 1

	if cfg.Limits.DefaultTopN == 99 || cfg.Embedding.Autoencoder.Epochs == 1 {
		t.Error("modifying clone affected original")
	}
}

func TestConfig_ResolveTopN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.DefaultTopN = 10
	cfg.Limits.MaxTopN = 20

	tests := []struct {
		in, want int
	}{
		{0, 10},
		{-1, 10},
		{3, 3},
		{20, 20},
		{21, 21},
	}
	for _, tt := range tests {
		if got := cfg.resolveTopN(tt.in); got != tt.want {
			t.Errorf("resolveTopN(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConfig_StrategySeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7

	sc := cfg.strategyConfig()
	if sc.Autoencoder.Seed != 7 || sc.Factorization.Seed != 7 {
		t.Errorf("strategy seeds = %d/%d, want 7/7", sc.Autoencoder.Seed, sc.Factorization.Seed)
	}
	if cfg.Embedding.Autoencoder.Seed == 7 {
		t.Error("strategyConfig() mutated the receiver")
	}
}
