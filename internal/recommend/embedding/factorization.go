// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// FactorizationConfig contains configuration for the factorization strategy.
type FactorizationConfig struct {
	// Factors is the dimension of the latent factor vectors.
	// Default: 64.
	Factors int `json:"factors" koanf:"factors"`

	// Iterations is the number of alternating passes.
	// Default: 15.
	Iterations int `json:"iterations" koanf:"iterations"`

	// Regularization is the L2 penalty applied to both factor matrices.
	// Default: 0.01.
	Regularization float64 `json:"regularization" koanf:"regularization"`

	// NumWorkers is the number of parallel workers for training.
	// If <= 0, defaults to 4.
	NumWorkers int `json:"num_workers" koanf:"num_workers"`

	// Seed drives the initial product factors.
	// Default: 42.
	Seed int64 `json:"seed" koanf:"seed"`
}

// DefaultFactorizationConfig returns default factorization configuration.
func DefaultFactorizationConfig() FactorizationConfig {
	return FactorizationConfig{
		Factors:        64,
		Iterations:     15,
		Regularization: 0.01,
		NumWorkers:     4,
		Seed:           42,
	}
}

// Factorization approximates the feature matrix as X ≈ U Vᵀ by alternating
// least squares, where U (rows x factors) holds the product embeddings and
// V (features x factors) the feature loadings.
//
// Each pass first solves V with U fixed and then U with V fixed, so after Fit
// the row embeddings of the training matrix equal Encode of the same rows:
//
//	u = (VᵀV + λI)⁻¹ Vᵀ x
type Factorization struct {
	baseStrategy
	config FactorizationConfig

	// V is the feature loading matrix (features x factors).
	V [][]float64

	// gram is VᵀV + λI, cached for Encode.
	gram [][]float64
}

// NewFactorization creates an unfitted factorization strategy.
func NewFactorization(cfg FactorizationConfig) *Factorization {
	def := DefaultFactorizationConfig()
	if cfg.Factors <= 0 {
		cfg.Factors = def.Factors
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = def.Iterations
	}
	if cfg.Regularization <= 0 {
		cfg.Regularization = def.Regularization
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = def.NumWorkers
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}

	return &Factorization{
		baseStrategy: baseStrategy{name: NameFactorization},
		config:       cfg,
	}
}

// Dim returns the number of latent factors.
func (f *Factorization) Dim() int {
	return f.config.Factors
}

// Fit factorizes X.
//
//nolint:gocritic // X follows linear algebra notation
func (f *Factorization) Fit(ctx context.Context, X [][]float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(X) == 0 || len(X[0]) == 0 {
		return errors.New("embedding: factorization needs a non-empty feature matrix")
	}
	if err := checkInput(X, len(X[0])); err != nil {
		return err
	}

	numRows, numCols := len(X), len(X[0])
	k := f.config.Factors
	lambda := f.config.Regularization

	U := initFactors(numRows, k, f.config.Seed)
	V := make([][]float64, numCols)

	// Column view of X for the V step.
	Xt := make([][]float64, numCols)
	for j := range Xt {
		Xt[j] = make([]float64, numRows)
		for i := range X {
			Xt[j][i] = X[i][j]
		}
	}

	for iter := 0; iter < f.config.Iterations; iter++ {
		if contextCancelled(ctx) {
			return ctx.Err()
		}

		f.solveRows(V, Xt, U, lambda)
		f.solveRows(U, X, V, lambda)
	}

	f.V = V
	f.gram = regularizedGram(V, lambda)
	f.markFitted()
	return nil
}

// initFactors returns a small seeded starting matrix. The entries must not
// follow a low-rank pattern or the alternating solves stay in that subspace.
func initFactors(rows, k int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic init, not security sensitive
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, k)
		for f := range m[i] {
			m[i][f] = 0.1 * (rng.Float64() - 0.5)
		}
	}
	return m
}

// regularizedGram computes MᵀM + λI.
//
//nolint:gocritic // M follows linear algebra notation
func regularizedGram(M [][]float64, lambda float64) [][]float64 {
	k := 0
	if len(M) > 0 {
		k = len(M[0])
	}

	G := make([][]float64, k)
	for f := range G {
		G[f] = make([]float64, k)
	}
	for _, row := range M {
		for f1 := 0; f1 < k; f1++ {
			for f2 := f1; f2 < k; f2++ {
				G[f1][f2] += row[f1] * row[f2]
			}
		}
	}
	for f1 := 0; f1 < k; f1++ {
		for f2 := 0; f2 < f1; f2++ {
			G[f1][f2] = G[f2][f1]
		}
		G[f1][f1] += lambda
	}
	return G
}

// solveRows sets dst[r] = (FᵀF + λI)⁻¹ Fᵀ targets[r] for every row r,
// splitting rows across workers.
//
//nolint:gocritic // F follows linear algebra notation
func (f *Factorization) solveRows(dst, targets, F [][]float64, lambda float64) {
	G := regularizedGram(F, lambda)

	n := len(dst)
	workers := f.config.NumWorkers
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(rStart, rEnd int) {
			defer wg.Done()
			for r := rStart; r < rEnd; r++ {
				dst[r] = project(G, F, targets[r])
			}
		}(start, end)
	}
	wg.Wait()
}

// project solves G u = Fᵀ x.
//
//nolint:gocritic // G, F follow linear algebra notation
func project(G, F [][]float64, x []float64) []float64 {
	k := len(G)
	b := make([]float64, k)
	for j, row := range F {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for c := 0; c < k; c++ {
			b[c] += xj * row[c]
		}
	}
	return solveLinearSystem(G, b)
}

// Encode embeds each row of X by ridge regression on the fitted loadings.
//
//nolint:gocritic // X follows linear algebra notation
func (f *Factorization) Encode(X [][]float64) ([][]float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.fitted {
		return nil, ErrNotFitted
	}
	if err := checkInput(X, len(f.V)); err != nil {
		return nil, err
	}

	out := make([][]float64, len(X))
	for i, x := range X {
		out[i] = project(f.gram, f.V, x)
	}
	return out, nil
}

// factorizationState is the gob payload of MarshalState.
type factorizationState struct {
	Config FactorizationConfig
	V      [][]float64
}

// MarshalState serializes the configuration and the loading matrix.
func (f *Factorization) MarshalState() ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.fitted {
		return nil, ErrNotFitted
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(factorizationState{Config: f.config, V: f.V}); err != nil {
		return nil, fmt.Errorf("encode factorization state: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalState restores a model written by MarshalState.
func (f *Factorization) UnmarshalState(data []byte) error {
	var st factorizationState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return fmt.Errorf("decode factorization state: %w", err)
	}
	if len(st.V) == 0 {
		return errors.New("decode factorization state: empty loading matrix")
	}
	for j, row := range st.V {
		if len(row) != st.Config.Factors {
			return fmt.Errorf("decode factorization state: row %d has %d factors, want %d", j, len(row), st.Config.Factors)
		}
	}
	if st.Config.NumWorkers <= 0 {
		st.Config.NumWorkers = DefaultFactorizationConfig().NumWorkers
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.config = st.Config
	f.V = st.V
	f.gram = regularizedGram(st.V, st.Config.Regularization)
	f.markFitted()
	return nil
}

// solveLinearSystem solves A*x = b using Cholesky decomposition.
//
//nolint:gocritic // A, L follow standard linear algebra notation
func solveLinearSystem(A [][]float64, b []float64) []float64 {
	n := len(b)

	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}

			if i == j {
				if sum <= 0 {
					sum = 1e-10
				}
				L[i][j] = math.Sqrt(sum)
			} else if L[j][j] != 0 {
				L[i][j] = sum / L[j][j]
			}
		}
	}

	// Forward substitution: L z = b.
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= L[i][j] * z[j]
		}
		if L[i][i] != 0 {
			z[i] = sum / L[i][i]
		}
	}

	// Back substitution: Lᵀ x = z.
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= L[j][i] * x[j]
		}
		if L[i][i] != 0 {
			x[i] = sum / L[i][i]
		}
	}

	return x
}
