// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package recommend

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/roomstyle/internal/recommend/embedding"
	"github.com/tomtom215/roomstyle/internal/recommend/features"
)

// State is the complete fitted state of an Engine in a serializable form.
type State struct {
	RunID    string
	FittedAt time.Time

	Catalog []Product
	Space   features.SpaceState

	Strategy      string
	StrategyState []byte

	Features   [][]float64
	Embeddings [][]float64
}

// Snapshot exports the fitted state.
func (e *Engine) Snapshot() (*State, error) {
	if !e.fitted() {
		return nil, ErrNotFitted
	}

	params, err := e.strategy.MarshalState()
	if err != nil {
		return nil, fmt.Errorf("snapshot %s embedding: %w", e.strategy.Name(), err)
	}

	return &State{
		RunID:         e.runID,
		FittedAt:      e.fittedAt,
		Catalog:       append([]Product(nil), e.catalog...),
		Space:         e.space.State(),
		Strategy:      e.strategy.Name(),
		StrategyState: params,
		Features:      e.features,
		Embeddings:    e.embeddings,
	}, nil
}

// Restore rebuilds an Engine from a snapshot. The strategy recorded in the
// state wins over cfg.Embedding.Strategy; cfg supplies limits only.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Restore(st *State, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if st == nil {
		return nil, ErrNotFitted
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := ValidateCatalog(st.Catalog); err != nil {
		return nil, fmt.Errorf("restore catalog: %w", err)
	}

	space, err := features.SpaceFromState(st.Space)
	if err != nil {
		return nil, fmt.Errorf("restore features: %w", err)
	}

	ecfg := cfg.Embedding
	ecfg.Strategy = st.Strategy
	strategy, err := embedding.New(ecfg)
	if err != nil {
		return nil, fmt.Errorf("restore embedding: %w", err)
	}
	if err := strategy.UnmarshalState(st.StrategyState); err != nil {
		return nil, fmt.Errorf("restore %s embedding: %w", strategy.Name(), err)
	}

	if err := checkMatrix("features", st.Features, len(st.Catalog), space.Dim()); err != nil {
		return nil, err
	}
	if err := checkMatrix("embeddings", st.Embeddings, len(st.Catalog), strategy.Dim()); err != nil {
		return nil, err
	}

	logger = logger.With().Str("component", "recommend").Logger()
	e := newEngine(cfg, logger, append([]Product(nil), st.Catalog...), space, strategy, st.Features, st.Embeddings)
	e.runID = st.RunID
	e.fittedAt = st.FittedAt

	e.logger.Info().
		Str("run_id", e.runID).
		Str("strategy", strategy.Name()).
		Int("products", len(e.catalog)).
		Msg("engine restored")

	return e, nil
}

//nolint:gocritic // M follows linear algebra notation
func checkMatrix(name string, M [][]float64, rows, cols int) error {
	if len(M) != rows {
		return fmt.Errorf("restore %s: %d rows, want %d", name, len(M), rows)
	}
	for i, row := range M {
		if len(row) != cols {
			return fmt.Errorf("restore %s: row %d has %d columns, want %d", name, i, len(row), cols)
		}
	}
	return nil
}
