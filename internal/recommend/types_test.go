// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package recommend

import (
	"errors"
	"strings"
	"testing"
)

func TestTier_String(t *testing.T) {
	tests := []struct {
		tier     Tier
		expected string
		ceiling  float64
	}{
		{TierFlooring, "flooring_pin", 100},
		{TierExact, "exact", 100},
		{TierPartial, "partial", 80},
		{TierEmbedding, "embedding", 50},
		{Tier(99), "unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.tier.String(); got != tt.expected {
				t.Errorf("Tier(%d).String() = %q, want %q", tt.tier, got, tt.expected)
			}
			if got := tt.tier.Ceiling(); got != tt.ceiling {
				t.Errorf("Tier(%d).Ceiling() = %v, want %v", tt.tier, got, tt.ceiling)
			}
		})
	}
}

func TestProduct_Validate(t *testing.T) {
	valid := Product{Name: "Oak Table", Category: "Dining", Style: "Modern"}
	if err := valid.Validate(0); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	p := Product{Name: "Oak Table", Category: "Dining"}
	err := p.Validate(4)

	var mre *MalformedRecordError
	if !errors.As(err, &mre) {
		t.Fatalf("Validate() error = %v, want *MalformedRecordError", err)
	}
	if mre.Index != 4 || mre.Field != "style" {
		t.Errorf("error = %+v, want index 4 field style", mre)
	}
	if !strings.Contains(err.Error(), "Oak Table") || !strings.Contains(err.Error(), "record 4") {
		t.Errorf("Error() = %q, want record index and name", err.Error())
	}
}

func TestMalformedRecordError_Duplicate(t *testing.T) {
	err := &MalformedRecordError{Index: 2, Name: "Rug", Field: "name", Duplicate: true}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("Error() = %q, want duplicate mention", err.Error())
	}
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{79.9999992, 80},
		{56.566, 56.57},
		{0.004, 0},
		{100, 100},
	}
	for _, tt := range tests {
		if got := roundScore(tt.in); got != tt.want {
			t.Errorf("roundScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMergeRecommendations(t *testing.T) {
	rec := func(name string, conf float64, tier Tier) Recommendation {
		return Recommendation{Product: Product{Name: name}, Confidence: conf, Tier: tier}
	}

	in := []Recommendation{
		rec("Pin", 100, TierFlooring),
		rec("B", 40, TierPartial),
		rec("Pin", 80, TierPartial),
		rec("C", 60, TierPartial),
		rec("D", 40, TierPartial),
	}

	got := mergeRecommendations(in, 3)
	want := []string{"Pin", "C", "B"}
	if len(got) != len(want) {
		t.Fatalf("mergeRecommendations() = %v, want %v", names(got), want)
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i].Name, want[i])
		}
	}
	if got[0].Tier != TierFlooring {
		t.Errorf("first occurrence should win, got tier %s", got[0].Tier)
	}
}
