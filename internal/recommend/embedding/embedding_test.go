// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
)

func testMatrix() [][]float64 {
	return [][]float64{
		{1.2, -0.5, 0.0, 0.7},
		{-0.8, 1.1, 0.3, -0.2},
		{0.4, 0.4, -1.3, 0.9},
		{-1.0, -0.9, 0.6, 0.1},
		{0.9, 0.2, 1.0, -1.4},
		{-0.7, -0.3, -0.6, -0.1},
	}
}

func smallAutoencoder() AutoencoderConfig {
	return AutoencoderConfig{
		HiddenDim:       8,
		EmbeddingDim:    3,
		Dropout:         0.2,
		LearningRate:    0.01,
		Epochs:          20,
		BatchSize:       4,
		ValidationSplit: 0.2,
		Seed:            7,
	}
}

func assertFinite(t *testing.T, rows [][]float64) {
	t.Helper()
	for i, row := range rows {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("value [%d][%d] = %v, want finite", i, j, v)
			}
		}
	}
}

func assertEqualRows(t *testing.T, got, want [][]float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("len(row %d) = %d, want %d", i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("[%d][%d] = %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		strategy string
		want     string
		wantErr  bool
	}{
		{"default", "", NameAutoencoder, false},
		{"autoencoder", NameAutoencoder, NameAutoencoder, false},
		{"factorization", NameFactorization, NameFactorization, false},
		{"unknown", "pca", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			cfg.Strategy = tt.strategy

			s, err := New(cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownStrategy) {
					t.Errorf("New() error = %v, want ErrUnknownStrategy", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if s.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.want)
			}
		})
	}
}

func TestStrategies_NotFitted(t *testing.T) {
	t.Parallel()

	for _, s := range []Strategy{NewAutoencoder(smallAutoencoder()), NewFactorization(FactorizationConfig{Factors: 3})} {
		if _, err := s.Encode(testMatrix()); !errors.Is(err, ErrNotFitted) {
			t.Errorf("%s Encode() error = %v, want ErrNotFitted", s.Name(), err)
		}
		if _, err := s.MarshalState(); !errors.Is(err, ErrNotFitted) {
			t.Errorf("%s MarshalState() error = %v, want ErrNotFitted", s.Name(), err)
		}
	}
}

func TestAutoencoder_FitEncode(t *testing.T) {
	t.Parallel()

	ae := NewAutoencoder(smallAutoencoder())
	if err := ae.Fit(context.Background(), testMatrix()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !ae.IsFitted() {
		t.Fatal("IsFitted() = false after Fit")
	}

	emb, err := ae.Encode(testMatrix())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(emb) != 6 {
		t.Fatalf("len(Encode()) = %d, want 6", len(emb))
	}
	for i, row := range emb {
		if len(row) != ae.Dim() {
			t.Errorf("len(emb[%d]) = %d, want %d", i, len(row), ae.Dim())
		}
	}
	assertFinite(t, emb)

	again, err := ae.Encode(testMatrix())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	assertEqualRows(t, again, emb)

	h := ae.History()
	if len(h.TrainLoss) != 20 {
		t.Errorf("len(TrainLoss) = %d, want 20", len(h.TrainLoss))
	}
	// int(6 * 0.2) = 1 validation row.
	if len(h.ValidationLoss) != 20 {
		t.Errorf("len(ValidationLoss) = %d, want 20", len(h.ValidationLoss))
	}
}

func TestAutoencoder_Deterministic(t *testing.T) {
	t.Parallel()

	a := NewAutoencoder(smallAutoencoder())
	b := NewAutoencoder(smallAutoencoder())
	for _, s := range []*Autoencoder{a, b} {
		if err := s.Fit(context.Background(), testMatrix()); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
	}

	ea, _ := a.Encode(testMatrix())
	eb, _ := b.Encode(testMatrix())
	assertEqualRows(t, ea, eb)
}

func TestAutoencoder_LossDecreases(t *testing.T) {
	t.Parallel()

	cfg := smallAutoencoder()
	cfg.Dropout = 0
	cfg.Epochs = 100
	cfg.ValidationSplit = 0

	ae := NewAutoencoder(cfg)
	if err := ae.Fit(context.Background(), testMatrix()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	h := ae.History()
	first, last := h.TrainLoss[0], h.TrainLoss[len(h.TrainLoss)-1]
	if last >= first {
		t.Errorf("final loss %v >= initial loss %v", last, first)
	}
	if len(h.ValidationLoss) != 0 {
		t.Errorf("len(ValidationLoss) = %d, want 0 without a split", len(h.ValidationLoss))
	}
}

func TestAutoencoder_DimensionMismatch(t *testing.T) {
	t.Parallel()

	ae := NewAutoencoder(smallAutoencoder())
	if err := ae.Fit(context.Background(), testMatrix()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if _, err := ae.Encode([][]float64{{1, 2}}); !errors.Is(err, ErrDimension) {
		t.Errorf("Encode() error = %v, want ErrDimension", err)
	}
}

func TestAutoencoder_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ae := NewAutoencoder(smallAutoencoder())
	if err := ae.Fit(ctx, testMatrix()); !errors.Is(err, context.Canceled) {
		t.Errorf("Fit() error = %v, want context.Canceled", err)
	}
	if ae.IsFitted() {
		t.Error("IsFitted() = true after cancelled Fit")
	}
}

func TestAutoencoder_StateRoundTrip(t *testing.T) {
	t.Parallel()

	ae := NewAutoencoder(smallAutoencoder())
	if err := ae.Fit(context.Background(), testMatrix()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	want, _ := ae.Encode(testMatrix())

	data, err := ae.MarshalState()
	if err != nil {
		t.Fatalf("MarshalState() error = %v", err)
	}

	restored := NewAutoencoder(AutoencoderConfig{})
	if err := restored.UnmarshalState(data); err != nil {
		t.Fatalf("UnmarshalState() error = %v", err)
	}
	if restored.Dim() != 3 {
		t.Errorf("restored Dim() = %d, want 3", restored.Dim())
	}

	got, err := restored.Encode(testMatrix())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	assertEqualRows(t, got, want)
}

func TestAutoencoder_UnmarshalGarbage(t *testing.T) {
	t.Parallel()

	if err := NewAutoencoder(AutoencoderConfig{}).UnmarshalState([]byte("not gob")); err == nil {
		t.Error("UnmarshalState() error = nil, want decode error")
	}
}

func TestFactorization_Reconstruction(t *testing.T) {
	t.Parallel()

	f := NewFactorization(FactorizationConfig{Factors: 8, Iterations: 30, Regularization: 0.001, NumWorkers: 2})
	X := testMatrix()
	if err := f.Fit(context.Background(), X); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	emb, err := f.Encode(X)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	assertFinite(t, emb)

	var residual, total float64
	for i, x := range X {
		for j := range x {
			var xhat float64
			for c := range emb[i] {
				xhat += emb[i][c] * f.V[j][c]
			}
			d := xhat - x[j]
			residual += d * d
			total += x[j] * x[j]
		}
	}
	if ratio := residual / total; ratio > 0.1 {
		t.Errorf("relative reconstruction error = %v, want <= 0.1", ratio)
	}
}

func TestFactorization_StateRoundTrip(t *testing.T) {
	t.Parallel()

	f := NewFactorization(FactorizationConfig{Factors: 3})
	if err := f.Fit(context.Background(), testMatrix()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	want, _ := f.Encode(testMatrix())

	data, err := f.MarshalState()
	if err != nil {
		t.Fatalf("MarshalState() error = %v", err)
	}

	restored := NewFactorization(FactorizationConfig{})
	if err := restored.UnmarshalState(data); err != nil {
		t.Fatalf("UnmarshalState() error = %v", err)
	}
	if restored.Dim() != 3 {
		t.Errorf("restored Dim() = %d, want 3", restored.Dim())
	}

	got, err := restored.Encode(testMatrix())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	assertEqualRows(t, got, want)
}

func TestFactorization_DimensionMismatch(t *testing.T) {
	t.Parallel()

	f := NewFactorization(FactorizationConfig{Factors: 2})
	if err := f.Fit(context.Background(), testMatrix()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := f.Encode([][]float64{{1, 2, 3}}); !errors.Is(err, ErrDimension) {
		t.Errorf("Encode() error = %v, want ErrDimension", err)
	}
}

func TestSolveLinearSystem(t *testing.T) {
	t.Parallel()

	A := [][]float64{{4, 2}, {2, 3}}
	b := []float64{2, 1}

	x := solveLinearSystem(A, b)
	// 4x + 2y = 2, 2x + 3y = 1 -> x = 0.5, y = 0
	if math.Abs(x[0]-0.5) > 1e-9 || math.Abs(x[1]) > 1e-9 {
		t.Errorf("solveLinearSystem() = %v, want [0.5 0]", x)
	}
}
