// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/roomstyle/internal/catalog"
	"github.com/tomtom215/roomstyle/internal/config"
	"github.com/tomtom215/roomstyle/internal/recommend"
	"github.com/tomtom215/roomstyle/internal/recommend/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	rc := recommend.DefaultConfig()
	rc.Embedding.Autoencoder.HiddenDim = 16
	rc.Embedding.Autoencoder.EmbeddingDim = 8
	rc.Embedding.Autoencoder.Epochs = 5

	return &config.Config{
		Recommend: *rc,
		Catalog: config.CatalogConfig{
			Source: config.SourceFile,
			File:   filepath.Join(t.TempDir(), "catalog.json"),
			DocumentStore: config.DocumentStoreConfig{
				Endpoint:          "https://docs.example.com/v1",
				ProjectID:         "proj",
				BucketID:          "images",
				PageSize:          100,
				RequestsPerSecond: 5,
				Burst:             5,
				MaxRetries:        1,
			},
		},
		Storage: config.StorageConfig{ModelDir: t.TempDir()},
	}
}

func TestRootCommand(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil || root.PersistentFlags().Lookup("env-file") == nil {
		t.Error("persistent flags missing")
	}
}

func TestRunMigrate(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	dump := filepath.Join(t.TempDir(), "legacy.json")
	body := `{"documents":[
		{"$id":"a","PRODUCT_NAME":"Oak Table","CATEGORY":"Dining","STYLE":"Modern","IMAGE":"img-a"},
		{"$id":"b","PRODUCT_NAME":"Matte Tiles","CATEGORY":"Flooring","STYLE":"Modern","IMAGE":"img-b"}
	]}`
	if err := os.WriteFile(dump, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	override := t.TempDir()
	if err := runMigrate(context.Background(), cfg, dump, override); err != nil {
		t.Fatalf("runMigrate() error = %v", err)
	}

	store, err := storage.NewStore(override)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := store.LatestVersion(storage.EngineModelName); !ok || v != 1 {
		t.Errorf("latest version = %d, %v; want 1, true", v, ok)
	}

	if err := runMigrate(context.Background(), cfg, filepath.Join(t.TempDir(), "missing.json"), ""); err == nil {
		t.Error("runMigrate() with a missing dump should fail")
	}
}

func TestBuildSource(t *testing.T) {
	t.Parallel()

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		src, breaker, mirror, err := buildSource(testConfig(t), zerolog.Nop())
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := src.(*catalog.FileSource); !ok || breaker != nil || mirror != nil {
			t.Errorf("got %T, breaker %v, mirror %v", src, breaker, mirror)
		}
	})

	t.Run("document store with mirror", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.Catalog.Source = config.SourceDocumentStore
		cfg.Catalog.MirrorPath = t.TempDir()

		src, breaker, mirror, err := buildSource(cfg, zerolog.Nop())
		if err != nil {
			t.Fatal(err)
		}
		defer mirror.Close()

		if _, ok := src.(*catalog.MirroredSource); !ok {
			t.Errorf("source = %T, want *catalog.MirroredSource", src)
		}
		if breaker == nil || breaker.BreakerState() != "closed" {
			t.Errorf("breaker = %v", breaker)
		}
	})
}

func TestImageLinker(t *testing.T) {
	t.Parallel()

	got := imageLinker(testConfig(t)).Link("img-a")
	want := "https://docs.example.com/v1/storage/buckets/images/files/img-a/view?project=proj"
	if got != want {
		t.Errorf("Link() = %q, want %q", got, want)
	}
}
