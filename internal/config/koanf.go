// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/roomstyle/internal/recommend"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/roomstyle/config.yaml",
	"/etc/roomstyle/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    2 * time.Minute, // refreshData refits inside the request
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: *recommend.DefaultConfig(),
		Catalog: CatalogConfig{
			Source:        SourceFile,
			File:          "/data/catalog.json",
			MirrorPath:    "",
			WatchDebounce: 2 * time.Second,
			DocumentStore: DocumentStoreConfig{
				PageSize:          100,
				RequestsPerSecond: 5,
				Burst:             5,
				Timeout:           30 * time.Second,
				MaxRetries:        5,
			},
		},
		Storage: StorageConfig{
			ModelDir: "/data/models",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing priority, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// DOCUMENT_STORE_API_KEY -> catalog.document_store.api_key
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine
	"recommend_strategy":        "recommend.embedding.strategy",
	"recommend_top_n":           "recommend.limits.default_top_n",
	"recommend_max_top_n":       "recommend.limits.max_top_n",
	"recommend_train_interval":  "recommend.training.interval",
	"recommend_train_timeout":   "recommend.training.timeout",
	"recommend_retain_versions": "recommend.training.retain_versions",
	"recommend_cache_enabled":   "recommend.cache.enabled",
	"recommend_cache_ttl":       "recommend.cache.ttl",
	"recommend_cache_size":      "recommend.cache.max_entries",
	"recommend_seed":            "recommend.seed",
	"recommend_ae_epochs":       "recommend.embedding.autoencoder.epochs",
	"recommend_ae_embedding":    "recommend.embedding.autoencoder.embedding_dim",
	"recommend_mf_factors":      "recommend.embedding.factorization.factors",
	"recommend_mf_iterations":   "recommend.embedding.factorization.iterations",

	// Catalog
	"catalog_source":         "catalog.source",
	"catalog_file":           "catalog.file",
	"catalog_mirror_path":    "catalog.mirror_path",
	"catalog_watch":          "catalog.watch",
	"catalog_watch_debounce": "catalog.watch_debounce",

	// Document store
	"document_store_endpoint":      "catalog.document_store.endpoint",
	"document_store_project_id":    "catalog.document_store.project_id",
	"document_store_api_key":       "catalog.document_store.api_key",
	"document_store_database_id":   "catalog.document_store.database_id",
	"document_store_collection_id": "catalog.document_store.collection_id",
	"document_store_bucket_id":     "catalog.document_store.bucket_id",
	"document_store_page_size":     "catalog.document_store.page_size",
	"document_store_rps":           "catalog.document_store.requests_per_second",
	"document_store_timeout":       "catalog.document_store.timeout",

	// Storage
	"model_dir": "storage.model_dir",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"admin_token":         "security.admin_token",
}

// envTransformFunc maps a known environment variable to its koanf path.
// Unknown variables map to "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
