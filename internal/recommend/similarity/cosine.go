// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

// Package similarity provides the cosine similarity primitives shared by the
// partial tier (raw TF-IDF vectors) and the embedding fallback tier.
package similarity

import (
	"math"
	"sort"
)

// Epsilon is added to norm products so a zero vector scores 0 instead of NaN.
const Epsilon = 1e-8

// Cosine computes dot(a, b) / (|a||b| + Epsilon).
// Vectors of different length or zero length score 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + Epsilon)
}

// Normalize returns a copy of v scaled to unit L2 norm.
// The epsilon keeps the zero vector at zero.
func Normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm) + Epsilon

	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// Matrix returns the row-wise cosine similarity matrix of A against B.
// Result[i][j] is the similarity of A[i] and B[j].
func Matrix(A, B [][]float64) [][]float64 { //nolint:gocritic // A, B follow linear algebra notation
	normB := make([][]float64, len(B))
	for j := range B {
		normB[j] = Normalize(B[j])
	}

	out := make([][]float64, len(A))
	for i := range A {
		a := Normalize(A[i])
		row := make([]float64, len(B))
		for j, b := range normB {
			if len(b) != len(a) {
				continue
			}
			var dot float64
			for k := range a {
				dot += a[k] * b[k]
			}
			row[j] = dot
		}
		out[i] = row
	}
	return out
}

// TopN returns the indices of the n highest scores in descending order.
// Ties keep the lower index first. n <= 0 or n > len(scores) returns all indices.
func TopN(scores []float64, n int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})

	if n > 0 && n < len(idx) {
		idx = idx[:n]
	}
	return idx
}
