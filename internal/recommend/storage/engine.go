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

	"github.com/tomtom215/roomstyle/internal/recommend"
)

// EngineModelName is the model name fitted engines are stored under.
const EngineModelName = "engine"

// SaveEngine snapshots e and writes it as the next version of EngineModelName.
// fitDuration is recorded in the metadata when known.
func (s *Store) SaveEngine(ctx context.Context, e *recommend.Engine, fitDuration time.Duration) (*ModelMetadata, error) {
	st, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	info, err := e.Info()
	if err != nil {
		return nil, err
	}

	meta, err := s.Save(ctx, EngineModelName, st, ModelMetadata{
		RunID:              info.RunID,
		Strategy:           info.Strategy,
		TrainedAt:          info.FittedAt,
		ProductCount:       info.Products,
		FeatureDim:         info.FeatureDim,
		EmbeddingDim:       info.EmbeddingDim,
		TrainingDurationMS: fitDuration.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("save engine: %w", err)
	}
	return meta, nil
}

// LoadEngine reads a saved engine (version 0 = latest) and restores it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (s *Store) LoadEngine(ctx context.Context, version int, cfg *recommend.Config, logger zerolog.Logger) (*recommend.Engine, *ModelMetadata, error) {
	var st recommend.State
	meta, err := s.Load(ctx, EngineModelName, version, &st)
	if err != nil {
		return nil, nil, err
	}

	e, err := recommend.Restore(&st, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s v%d: %v", ErrCorrupt, EngineModelName, meta.Version, err)
	}
	return e, meta, nil
}
