// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package features

import (
	"errors"
	"math"
	"testing"
)

func testRecords() []Record {
	return []Record{
		{Category: "Dining", Style: "Modern", Name: "Oak Table"},
		{Category: "Dining", Style: "Rustic", Name: "Glass Table"},
		{Category: "Flooring", Style: "Modern", Name: "Matte Tiles"},
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	got := Tokenize("The Modern OAK table, a 2x chair & I")
	want := []string{"modern", "oak", "table", "2x", "chair"}

	if len(got) != len(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokenize()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTFIDF_FitTransform(t *testing.T) {
	t.Parallel()

	v := FitTFIDF([]string{"modern table", "rustic table"})

	if v.Dim() != 3 {
		t.Fatalf("Dim() = %d, want 3", v.Dim())
	}
	// Vocabulary is sorted: modern, rustic, table.
	if v.terms[0] != "modern" || v.terms[1] != "rustic" || v.terms[2] != "table" {
		t.Fatalf("terms = %v, want [modern rustic table]", v.terms)
	}

	wantRare := math.Log(3.0/2.0) + 1
	if math.Abs(v.idf[0]-wantRare) > 1e-12 {
		t.Errorf("idf[modern] = %v, want %v", v.idf[0], wantRare)
	}
	if math.Abs(v.idf[2]-1) > 1e-12 {
		t.Errorf("idf[table] = %v, want 1", v.idf[2])
	}

	rows := v.Transform([]string{"modern table", "unknown words", ""})
	var norm float64
	for _, x := range rows[0] {
		norm += x * x
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("row norm^2 = %v, want 1", norm)
	}

	for i := 1; i < 3; i++ {
		for j, x := range rows[i] {
			if x != 0 {
				t.Errorf("rows[%d][%d] = %v, want 0 for out-of-vocabulary text", i, j, x)
			}
		}
	}
}

func TestOneHot_UnknownIsZero(t *testing.T) {
	t.Parallel()

	o := FitOneHot([][]string{{"Dining", "Modern"}, {"Flooring", "Rustic"}})
	if o.Dim() != 4 {
		t.Fatalf("Dim() = %d, want 4", o.Dim())
	}

	got := o.Transform([][]string{{"Dining", "Rustic"}, {"Garden", "Boho"}})

	want0 := []float64{1, 0, 0, 1}
	for j := range want0 {
		if got[0][j] != want0[j] {
			t.Errorf("known row[%d] = %v, want %v", j, got[0][j], want0[j])
		}
	}
	for j, x := range got[1] {
		if x != 0 {
			t.Errorf("unknown row[%d] = %v, want 0", j, x)
		}
	}
}

func TestScaler(t *testing.T) {
	t.Parallel()

	s := FitScaler([][]float64{{1, 5}, {3, 5}})
	got := s.Transform([][]float64{{1, 5}, {3, 5}})

	if got[0][0] != -1 || got[1][0] != 1 {
		t.Errorf("scaled column 0 = [%v %v], want [-1 1]", got[0][0], got[1][0])
	}
	if got[0][1] != 0 || got[1][1] != 0 {
		t.Errorf("constant column = [%v %v], want [0 0]", got[0][1], got[1][1])
	}
}

func TestFit(t *testing.T) {
	t.Parallel()

	space, X, err := Fit(testRecords())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if len(X) != 3 {
		t.Fatalf("len(X) = %d, want 3", len(X))
	}
	for i, row := range X {
		if len(row) != space.Dim() {
			t.Errorf("len(X[%d]) = %d, want %d", i, len(row), space.Dim())
		}
	}

	// Standardized columns have zero mean.
	for j := 0; j < space.Dim(); j++ {
		var sum float64
		for _, row := range X {
			sum += row[j]
		}
		if math.Abs(sum) > 1e-9 {
			t.Errorf("column %d mean = %v, want 0", j, sum/3)
		}
	}

	again := space.Transform(testRecords())
	for i := range X {
		for j := range X[i] {
			if math.Abs(X[i][j]-again[i][j]) > 1e-12 {
				t.Fatalf("Transform() differs from fit matrix at [%d][%d]", i, j)
			}
		}
	}
}

func TestFit_Empty(t *testing.T) {
	t.Parallel()

	if _, _, err := Fit(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Fit(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestTransform_NovelQuery(t *testing.T) {
	t.Parallel()

	space, _, err := Fit(testRecords())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	rows := space.Transform([]Record{{Category: "Garden", Style: "Boho"}})
	if len(rows) != 1 || len(rows[0]) != space.Dim() {
		t.Fatalf("Transform() shape mismatch")
	}
	for j, x := range rows[0] {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Errorf("row[%d] = %v, want finite", j, x)
		}
	}
}

func TestSpaceState_RoundTrip(t *testing.T) {
	t.Parallel()

	space, X, err := Fit(testRecords())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	restored, err := SpaceFromState(space.State())
	if err != nil {
		t.Fatalf("SpaceFromState() error = %v", err)
	}

	got := restored.Transform(testRecords())
	for i := range X {
		for j := range X[i] {
			if got[i][j] != X[i][j] {
				t.Fatalf("restored Transform()[%d][%d] = %v, want %v", i, j, got[i][j], X[i][j])
			}
		}
	}
}

func TestSpaceFromState_Mismatch(t *testing.T) {
	t.Parallel()

	space, _, err := Fit(testRecords())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	st := space.State()
	st.Mean = st.Mean[:1]
	if _, err := SpaceFromState(st); err == nil {
		t.Error("SpaceFromState() error = nil, want width mismatch")
	}
}
