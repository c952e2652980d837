// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/roomstyle/internal/config"
	"github.com/tomtom215/roomstyle/internal/logging"
	"github.com/tomtom215/roomstyle/internal/recommend/storage"
)

// runMigrate converts a legacy catalog dump into a saved engine version.
func runMigrate(ctx context.Context, cfg *config.Config, legacyPath, modelDir string) error {
	if modelDir == "" {
		modelDir = cfg.Storage.ModelDir
	}

	store, err := storage.NewStore(modelDir)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}

	meta, err := store.MigrateLegacy(ctx, legacyPath, imageLinker(cfg), &cfg.Recommend, logging.Logger())
	if err != nil {
		return err
	}

	logging.Info().
		Int("version", meta.Version).
		Str("dir", store.Dir()).
		Msg("Legacy catalog migrated")
	return nil
}
