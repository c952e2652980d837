// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package features

import "sort"

// OneHot encodes a fixed number of categorical columns.
// Each column has its own sorted vocabulary; a value outside the vocabulary
// encodes as an all-zero block for that column.
type OneHot struct {
	categories [][]string
	index      []map[string]int
	offsets    []int
	dim        int
}

// FitOneHot learns per-column vocabularies from rows.
// Every row must have the same number of columns as the first.
func FitOneHot(rows [][]string) *OneHot {
	if len(rows) == 0 {
		return newOneHot(nil)
	}

	cols := len(rows[0])
	seen := make([]map[string]struct{}, cols)
	for c := range seen {
		seen[c] = make(map[string]struct{})
	}
	for _, row := range rows {
		for c := 0; c < cols && c < len(row); c++ {
			seen[c][row[c]] = struct{}{}
		}
	}

	categories := make([][]string, cols)
	for c, values := range seen {
		vocab := make([]string, 0, len(values))
		for v := range values {
			vocab = append(vocab, v)
		}
		sort.Strings(vocab)
		categories[c] = vocab
	}

	return newOneHot(categories)
}

func newOneHot(categories [][]string) *OneHot {
	o := &OneHot{
		categories: categories,
		index:      make([]map[string]int, len(categories)),
		offsets:    make([]int, len(categories)),
	}
	for c, vocab := range categories {
		o.offsets[c] = o.dim
		o.index[c] = make(map[string]int, len(vocab))
		for i, v := range vocab {
			o.index[c][v] = i
		}
		o.dim += len(vocab)
	}
	return o
}

// Dim returns the total width of the encoding.
func (o *OneHot) Dim() int {
	return o.dim
}

// Transform encodes rows. Missing or unknown values contribute zeros.
func (o *OneHot) Transform(rows [][]string) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		vec := make([]float64, o.dim)
		for c := range o.categories {
			if c >= len(row) {
				break
			}
			if j, ok := o.index[c][row[c]]; ok {
				vec[o.offsets[c]+j] = 1
			}
		}
		out[i] = vec
	}
	return out
}
