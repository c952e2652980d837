// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/roomstyle/internal/catalog"
	"github.com/tomtom215/roomstyle/internal/recommend"
)

// MigrateLegacy converts a legacy catalog dump ({"documents": [...]}) into a
// saved engine in the current format: the dump is read, an engine is fitted
// on it and the result is saved as the next version of EngineModelName.
//
// It is an explicit operator step. Load never calls it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (s *Store) MigrateLegacy(ctx context.Context, path string, links catalog.ImageLinker,
	cfg *recommend.Config, logger zerolog.Logger) (*ModelMetadata, error) {
	logger = logger.With().Str("component", "storage").Str("legacy_path", path).Logger()
	logger.Info().Msg("migrating legacy catalog dump")

	products, err := catalog.ReadDocumentsFile(path, links)
	if err != nil {
		return nil, fmt.Errorf("read legacy dump: %w", err)
	}

	start := time.Now()
	engine, err := recommend.Fit(ctx, products, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("fit legacy catalog: %w", err)
	}
	fitDuration := time.Since(start)

	meta, err := s.SaveEngine(ctx, engine, fitDuration)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("version", meta.Version).
		Int("products", meta.ProductCount).
		Str("run_id", meta.RunID).
		Dur("fit_duration", fitDuration).
		Msg("legacy catalog migrated")

	return meta, nil
}
