// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

// Package features builds the fixed-width product feature space.
//
// A product is represented by the concatenation of a TF-IDF vector over the
// document "category style name" and a one-hot encoding of its category and
// style, standardized with statistics fitted over the whole catalog. The space
// is frozen at fit time; later records and queries are projected into it and
// never refit it.
package features

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when fitting on zero records.
var ErrEmptyInput = errors.New("features: no records to fit")

// Record is the subset of a product the feature space reads.
type Record struct {
	Category string
	Style    string
	Name     string
}

// Document returns the text the vectorizer sees for r.
func (r Record) Document() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Category, r.Style, r.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Space is a fitted, immutable feature space.
type Space struct {
	text   *TFIDF
	cats   *OneHot
	scaler *Scaler
}

// Fit builds the feature space over records and returns it together with the
// standardized feature matrix of records in input order.
func Fit(records []Record) (*Space, [][]float64, error) {
	if len(records) == 0 {
		return nil, nil, ErrEmptyInput
	}

	docs := make([]string, len(records))
	rows := make([][]string, len(records))
	for i, r := range records {
		docs[i] = r.Document()
		rows[i] = []string{r.Category, r.Style}
	}

	s := &Space{
		text: FitTFIDF(docs),
		cats: FitOneHot(rows),
	}

	raw := s.combine(docs, rows)
	s.scaler = FitScaler(raw)

	return s, s.scaler.Transform(raw), nil
}

// Dim returns the feature dimension.
func (s *Space) Dim() int {
	return s.text.Dim() + s.cats.Dim()
}

// TextDim returns the width of the text block.
func (s *Space) TextDim() int {
	return s.text.Dim()
}

// Transform projects records into the space. Rows are in input order.
func (s *Space) Transform(records []Record) [][]float64 {
	docs := make([]string, len(records))
	rows := make([][]string, len(records))
	for i, r := range records {
		docs[i] = r.Document()
		rows[i] = []string{r.Category, r.Style}
	}
	return s.scaler.Transform(s.combine(docs, rows))
}

// TextVectors returns the unscaled TF-IDF vectors of arbitrary texts.
func (s *Space) TextVectors(texts []string) [][]float64 {
	return s.text.Transform(texts)
}

func (s *Space) combine(docs []string, rows [][]string) [][]float64 {
	textVecs := s.text.Transform(docs)
	catVecs := s.cats.Transform(rows)

	out := make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, 0, s.Dim())
		row = append(row, textVecs[i]...)
		row = append(row, catVecs[i]...)
		out[i] = row
	}
	return out
}

// SpaceState is the serializable form of a Space.
type SpaceState struct {
	Terms      []string
	IDF        []float64
	Categories [][]string
	Mean       []float64
	Scale      []float64
}

// State exports the fitted parameters.
func (s *Space) State() SpaceState {
	return SpaceState{
		Terms:      append([]string(nil), s.text.terms...),
		IDF:        append([]float64(nil), s.text.idf...),
		Categories: copyCategories(s.cats.categories),
		Mean:       append([]float64(nil), s.scaler.mean...),
		Scale:      append([]float64(nil), s.scaler.scale...),
	}
}

// SpaceFromState restores a Space exported with State.
func SpaceFromState(st SpaceState) (*Space, error) { //nolint:gocritic // hugeParam: restore path only
	if len(st.Terms) != len(st.IDF) {
		return nil, fmt.Errorf("features: %d terms but %d idf weights", len(st.Terms), len(st.IDF))
	}

	s := &Space{
		text:   newTFIDF(append([]string(nil), st.Terms...), append([]float64(nil), st.IDF...)),
		cats:   newOneHot(copyCategories(st.Categories)),
		scaler: &Scaler{mean: append([]float64(nil), st.Mean...), scale: append([]float64(nil), st.Scale...)},
	}

	if len(st.Mean) != s.Dim() || len(st.Scale) != s.Dim() {
		return nil, fmt.Errorf("features: scaler width %d/%d does not match feature dim %d",
			len(st.Mean), len(st.Scale), s.Dim())
	}
	return s, nil
}

func copyCategories(in [][]string) [][]string {
	out := make([][]string, len(in))
	for i, c := range in {
		out[i] = append([]string(nil), c...)
	}
	return out
}
