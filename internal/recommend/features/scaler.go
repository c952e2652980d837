// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package features

import "math"

// Scaler standardizes each dimension to zero mean and unit variance.
// Dimensions with zero variance keep a scale of 1.
type Scaler struct {
	mean  []float64
	scale []float64
}

// FitScaler computes per-dimension mean and population standard deviation.
func FitScaler(X [][]float64) *Scaler { //nolint:gocritic // X follows linear algebra notation
	if len(X) == 0 {
		return &Scaler{}
	}

	dim := len(X[0])
	mean := make([]float64, dim)
	for _, row := range X {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(X))
	for j := range mean {
		mean[j] /= n
	}

	scale := make([]float64, dim)
	for _, row := range X {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] < 1e-12 {
			scale[j] = 1
		}
	}

	return &Scaler{mean: mean, scale: scale}
}

// Transform returns a standardized copy of X.
func (s *Scaler) Transform(X [][]float64) [][]float64 { //nolint:gocritic // X follows linear algebra notation
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled := make([]float64, len(row))
		for j, v := range row {
			if j >= len(s.mean) {
				break
			}
			scaled[j] = (v - s.mean[j]) / s.scale[j]
		}
		out[i] = scaled
	}
	return out
}
