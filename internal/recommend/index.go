// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package recommend

import (
	"sort"

	"github.com/samber/lo"
)

type pairKey struct {
	category string
	style    string
}

// catalogIndex is the lookup structure built once per fitted catalog.
// Index slices are in catalog order.
type catalogIndex struct {
	byName     map[string]int
	byCategory map[string][]int
	byPair     map[pairKey][]int

	categories []string
	styles     []string
	flooring   []string
}

func buildIndex(catalog []Product) *catalogIndex {
	idx := &catalogIndex{
		byName:     make(map[string]int, len(catalog)),
		byCategory: make(map[string][]int),
		byPair:     make(map[pairKey][]int),
	}

	for i := range catalog {
		p := &catalog[i]
		idx.byName[p.Name] = i
		idx.byCategory[p.Category] = append(idx.byCategory[p.Category], i)
		key := pairKey{category: p.Category, style: p.Style}
		idx.byPair[key] = append(idx.byPair[key], i)

		if p.Category == FlooringCategory {
			idx.flooring = append(idx.flooring, p.Name)
		}
	}

	idx.categories = lo.Keys(idx.byCategory)
	idx.styles = lo.Uniq(lo.Map(catalog, func(p Product, _ int) string { return p.Style }))
	sort.Strings(idx.categories)
	sort.Strings(idx.styles)
	sort.Strings(idx.flooring)

	return idx
}

// filter returns the entries of ids accepted by keep, preserving order.
func filter(ids []int, keep func(int) bool) []int {
	return lo.Filter(ids, func(i int, _ int) bool { return keep(i) })
}
