// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Catalog.Source != SourceFile {
		t.Errorf("Catalog.Source = %q, want file", cfg.Catalog.Source)
	}
	if cfg.Catalog.DocumentStore.APIKey != "" || cfg.Catalog.DocumentStore.ProjectID != "" {
		t.Error("document store credentials must not have defaults")
	}
	if cfg.Catalog.DocumentStore.PageSize != 100 {
		t.Errorf("DocumentStore.PageSize = %d, want 100", cfg.Catalog.DocumentStore.PageSize)
	}
	if cfg.Recommend.Limits.DefaultTopN != 10 {
		t.Errorf("Recommend.Limits.DefaultTopN = %d, want 10", cfg.Recommend.Limits.DefaultTopN)
	}
	if cfg.Recommend.Training.Interval != 24*time.Hour {
		t.Errorf("Recommend.Training.Interval = %v, want 24h", cfg.Recommend.Training.Interval)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() = %v, want nil", err)
	}
}

func validDocumentStoreConfig() *Config {
	cfg := defaultConfig()
	cfg.Catalog.Source = SourceDocumentStore
	cfg.Catalog.DocumentStore.Endpoint = "https://docs.example.com/v1"
	cfg.Catalog.DocumentStore.ProjectID = "project"
	cfg.Catalog.DocumentStore.APIKey = "key"
	cfg.Catalog.DocumentStore.DatabaseID = "db"
	cfg.Catalog.DocumentStore.CollectionID = "products"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "document store complete",
			modify: func(c *Config) { *c = *validDocumentStoreConfig() },
		},
		{
			name:    "invalid port",
			modify:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "unknown source",
			modify:  func(c *Config) { c.Catalog.Source = "ftp" },
			wantErr: "catalog.source must be one of",
		},
		{
			name:    "unknown log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "file source without file",
			modify:  func(c *Config) { c.Catalog.File = "" },
			wantErr: "CATALOG_FILE is required",
		},
		{
			name: "document store without api key",
			modify: func(c *Config) {
				*c = *validDocumentStoreConfig()
				c.Catalog.DocumentStore.APIKey = ""
			},
			wantErr: "DOCUMENT_STORE_API_KEY is required",
		},
		{
			name: "document store bad scheme",
			modify: func(c *Config) {
				*c = *validDocumentStoreConfig()
				c.Catalog.DocumentStore.Endpoint = "ftp://docs.example.com"
			},
			wantErr: "scheme must be http or https",
		},
		{
			name:    "invalid page size",
			modify:  func(c *Config) { c.Catalog.DocumentStore.PageSize = 0 },
			wantErr: "catalog.document_store.page_size",
		},
		{
			name:    "invalid recommend limits",
			modify:  func(c *Config) { c.Recommend.Limits.DefaultTopN = 0 },
			wantErr: "recommend: limits.default_top_n",
		},
		{
			name:    "unknown strategy",
			modify:  func(c *Config) { c.Recommend.Embedding.Strategy = "pca" },
			wantErr: "recommend: embedding.strategy",
		},
		{
			name:    "rate limit without window",
			modify:  func(c *Config) { c.Security.RateLimitWindow = 0 },
			wantErr: "RATE_LIMIT_WINDOW",
		},
		{
			name: "rate limit disabled ignores window",
			modify: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitWindow = 0
			},
		},
		{
			name:    "no cors origins",
			modify:  func(c *Config) { c.Security.CORSOrigins = nil },
			wantErr: "CORS_ORIGINS",
		},
		{
			name:    "empty model dir",
			modify:  func(c *Config) { c.Storage.ModelDir = "" },
			wantErr: "storage.model_dir is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateEndpointURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://docs.example.com/v1", false},
		{"http://localhost:8080", false},
		{"docs.example.com", true},
		{"https://", true},
		{"https://docs.example.com/v1?project=x", true},
		{"https://docs.example.com/v1#frag", true},
	}

	for _, tt := range tests {
		err := validateEndpointURL(tt.url, "ENDPOINT")
		if (err != nil) != tt.wantErr {
			t.Errorf("validateEndpointURL(%q) = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
