// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package features

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches runs of two or more letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases text and splits it into tokens, dropping English stopwords.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// TFIDF is a term-frequency / inverse-document-frequency vectorizer.
//
// The vocabulary is sorted lexicographically so column order is stable
// across fits of the same corpus. IDF uses the smoothed form
// ln((1+n)/(1+df)) + 1 and every output row is L2-normalized.
type TFIDF struct {
	terms []string
	index map[string]int
	idf   []float64
}

// FitTFIDF builds the vocabulary and idf weights from docs.
func FitTFIDF(docs []string) *TFIDF {
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			docFreq[tok]++
		}
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return newTFIDF(terms, idf)
}

func newTFIDF(terms []string, idf []float64) *TFIDF {
	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}
	return &TFIDF{terms: terms, index: index, idf: idf}
}

// Dim returns the vocabulary size.
func (v *TFIDF) Dim() int {
	return len(v.terms)
}

// Transform projects docs into the fitted vocabulary. Unknown terms are dropped.
func (v *TFIDF) Transform(docs []string) [][]float64 {
	out := make([][]float64, len(docs))
	for i, doc := range docs {
		out[i] = v.transformOne(doc)
	}
	return out
}

func (v *TFIDF) transformOne(doc string) []float64 {
	row := make([]float64, len(v.terms))
	for _, tok := range Tokenize(doc) {
		if col, ok := v.index[tok]; ok {
			row[col]++
		}
	}

	var norm float64
	for col, tf := range row {
		if tf == 0 {
			continue
		}
		row[col] = tf * v.idf[col]
		norm += row[col] * row[col]
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range row {
			row[col] /= norm
		}
	}
	return row
}
