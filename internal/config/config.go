// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package config

import (
	"time"

	"github.com/tomtom215/roomstyle/internal/recommend"
)

// Catalog source kinds.
const (
	SourceFile          = "file"
	SourceDocumentStore = "document_store"
)

// Config holds all application configuration.
//
// Loading order (see Load):
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables listed in envMappings
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Logging   LoggingConfig    `koanf:"logging"`
	Recommend recommend.Config `koanf:"recommend"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Storage   StorageConfig    `koanf:"storage"`
	Security  SecurityConfig   `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig selects where the product catalog comes from.
type CatalogConfig struct {
	// Source is "file" or "document_store".
	Source string `koanf:"source" validate:"oneof=file document_store"`

	// File is the JSON documents file read when Source is "file".
	File string `koanf:"file"`

	// MirrorPath is the badger directory holding the last good catalog.
	// Empty disables the mirror.
	MirrorPath string `koanf:"mirror_path"`

	// Watch refits the engine when File changes on disk.
	Watch bool `koanf:"watch"`

	// WatchDebounce coalesces bursts of file events into one refit.
	WatchDebounce time.Duration `koanf:"watch_debounce" validate:"gte=0"`

	DocumentStore DocumentStoreConfig `koanf:"document_store"`
}

// DocumentStoreConfig configures the remote document-store catalog client.
// Credentials and identifiers have no defaults and must be supplied.
type DocumentStoreConfig struct {
	Endpoint     string `koanf:"endpoint"`
	ProjectID    string `koanf:"project_id"`
	APIKey       string `koanf:"api_key"`
	DatabaseID   string `koanf:"database_id"`
	CollectionID string `koanf:"collection_id"`
	BucketID     string `koanf:"bucket_id"`

	PageSize          int           `koanf:"page_size" validate:"min=1,max=5000"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int           `koanf:"burst" validate:"min=1"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxRetries        int           `koanf:"max_retries" validate:"min=0,max=10"`
}

// StorageConfig holds model persistence settings.
type StorageConfig struct {
	ModelDir string `koanf:"model_dir" validate:"required"`
}

// SecurityConfig holds HTTP-facing protection settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// AdminToken, when set, is required as a bearer token on admin routes.
	AdminToken string `koanf:"admin_token"`
}
