// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package recommend

import (
	"math"
	"strings"
)

// FlooringCategory is the category whose products the flooring filter acts on.
const FlooringCategory = "Flooring"

// Confidence ceilings per tier.
const (
	ConfidenceExact     = 100.0
	ConfidencePartial   = 80.0
	ConfidenceEmbedding = 50.0
)

// Tier identifies which stage of the cascade produced a recommendation.
type Tier int

const (
	// TierFlooring is the pinned flooring product chosen by the user.
	TierFlooring Tier = iota
	// TierExact matches both category and style.
	TierExact
	// TierPartial matches category and is ranked by style text similarity.
	TierPartial
	// TierEmbedding is the learned embedding similarity fallback.
	TierEmbedding
)

// String returns the wire name of the tier.
func (t Tier) String() string {
	switch t {
	case TierFlooring:
		return "flooring_pin"
	case TierExact:
		return "exact"
	case TierPartial:
		return "partial"
	case TierEmbedding:
		return "embedding"
	default:
		return "unknown"
	}
}

// Ceiling returns the maximum confidence the tier can assign.
func (t Tier) Ceiling() float64 {
	switch t {
	case TierFlooring, TierExact:
		return ConfidenceExact
	case TierPartial:
		return ConfidencePartial
	case TierEmbedding:
		return ConfidenceEmbedding
	default:
		return 0
	}
}

// Product is an immutable catalog entry. Name is the unique key.
type Product struct {
	// Name is the product name and catalog key.
	Name string `json:"name"`

	// Category is the room or product category, e.g. "Kitchen" or "Flooring".
	Category string `json:"category"`

	// Style is the design style, e.g. "Modern".
	Style string `json:"style"`

	// ImageRef is an image URI or storage reference.
	ImageRef string `json:"image,omitempty"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`
}

// Validate checks the required fields of the record at index.
func (p *Product) Validate(index int) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return &MalformedRecordError{Index: index, Name: p.Name, Field: "name"}
	case strings.TrimSpace(p.Category) == "":
		return &MalformedRecordError{Index: index, Name: p.Name, Field: "category"}
	case strings.TrimSpace(p.Style) == "":
		return &MalformedRecordError{Index: index, Name: p.Name, Field: "style"}
	}
	return nil
}

// Recommendation is a ranked product with its score and provenance.
type Recommendation struct {
	Product

	// Confidence is a tier-bounded ranking score in [0, 100].
	Confidence float64 `json:"confidence"`

	// Tier is the stage that produced this recommendation.
	Tier Tier `json:"-"`
}

// Query is a recommendation request.
type Query struct {
	// Category is the room category to match.
	Category string

	// Style is the preferred design style.
	Style string

	// Flooring optionally names the flooring product the user already chose.
	Flooring string

	// TopN caps the result size. Zero or negative uses the configured default.
	TopN int
}

// roundScore rounds a confidence to two decimals.
func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
