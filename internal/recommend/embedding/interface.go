// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

// Package embedding implements the strategies that compress product feature
// vectors into dense embeddings.
//
// # Strategies
//
//   - autoencoder: a small feed-forward reconstruction network trained with
//     Adam on mean squared error. Only the encoder half is used to embed.
//   - factorization: low-rank factorization of the feature matrix by
//     alternating least squares; new rows are embedded by ridge regression
//     against the fitted item factors.
//
// # Thread Safety
//
// Fit takes an exclusive lock and Encode a shared one. Encode is a pure
// function of its input for a fitted strategy.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotFitted is returned by Encode before Fit or UnmarshalState.
	ErrNotFitted = errors.New("embedding: strategy not fitted")

	// ErrDimension is returned when input width does not match the fitted width.
	ErrDimension = errors.New("embedding: input dimension mismatch")

	// ErrUnknownStrategy is returned by New for an unregistered name.
	ErrUnknownStrategy = errors.New("embedding: unknown strategy")
)

// Strategy maps feature vectors to embeddings.
type Strategy interface {
	// Name returns the registry name of the strategy.
	Name() string

	// Fit trains the strategy on the feature matrix X (rows are products).
	Fit(ctx context.Context, X [][]float64) error

	// Encode embeds each row of X. It must not mutate the strategy.
	Encode(X [][]float64) ([][]float64, error)

	// Dim returns the embedding width.
	Dim() int

	// MarshalState serializes the fitted parameters.
	MarshalState() ([]byte, error)

	// UnmarshalState restores parameters written by MarshalState.
	UnmarshalState(data []byte) error
}

// Config selects and parameterizes a strategy.
type Config struct {
	// Strategy is the registry name. Default: "autoencoder".
	Strategy string `json:"strategy" koanf:"strategy"`

	Autoencoder   AutoencoderConfig   `json:"autoencoder" koanf:"autoencoder"`
	Factorization FactorizationConfig `json:"factorization" koanf:"factorization"`
}

// DefaultConfig returns the default strategy configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:      NameAutoencoder,
		Autoencoder:   DefaultAutoencoderConfig(),
		Factorization: DefaultFactorizationConfig(),
	}
}

// Registry names.
const (
	NameAutoencoder   = "autoencoder"
	NameFactorization = "factorization"
)

// New builds an unfitted strategy by name.
func New(cfg Config) (Strategy, error) { //nolint:gocritic // hugeParam: construction path only
	switch cfg.Strategy {
	case "", NameAutoencoder:
		return NewAutoencoder(cfg.Autoencoder), nil
	case NameFactorization:
		return NewFactorization(cfg.Factorization), nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownStrategy, cfg.Strategy, Names())
	}
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := []string{NameAutoencoder, NameFactorization}
	sort.Strings(names)
	return names
}

// baseStrategy provides fit bookkeeping shared by all strategies.
type baseStrategy struct {
	name   string
	fitted bool
	mu     sync.RWMutex
}

// Name returns the strategy identifier.
func (b *baseStrategy) Name() string {
	return b.name
}

// IsFitted reports whether Fit or UnmarshalState has completed.
func (b *baseStrategy) IsFitted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fitted
}

// markFitted must be called with the write lock held.
func (b *baseStrategy) markFitted() {
	b.fitted = true
}

// checkInput validates the width of every row against dim.
func checkInput(X [][]float64, dim int) error { //nolint:gocritic // X follows linear algebra notation
	for i, row := range X {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimension, i, len(row), dim)
		}
	}
	return nil
}

// contextCancelled checks if the context has been canceled.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

var (
	_ Strategy = (*Autoencoder)(nil)
	_ Strategy = (*Factorization)(nil)
)
