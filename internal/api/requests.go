// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/roomstyle/internal/recommend"
	"github.com/tomtom215/roomstyle/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 * 1024

// RecommendationRequest is the body of POST /api/recommendations.
type RecommendationRequest struct {
	// Room is the room category, e.g. "Dining".
	Room string `json:"room" validate:"notblank,max=200"`

	// Style is the preferred design style.
	Style string `json:"style" validate:"notblank,max=200"`

	// Flooring optionally names a flooring product already chosen.
	Flooring string `json:"flooring" validate:"max=200"`

	// TopN caps the number of products. Zero uses the server default.
	TopN int `json:"top_n" validate:"gte=0,lte=1000"`

	// RefreshData refits the engine from the catalog before answering.
	RefreshData bool `json:"refreshData"`
}

// Query converts the request into an engine query.
func (req *RecommendationRequest) Query() recommend.Query {
	return recommend.Query{
		Category: req.Room,
		Style:    req.Style,
		Flooring: req.Flooring,
		TopN:     req.TopN,
	}
}

// ProductResponse is one recommended product on the wire.
type ProductResponse struct {
	Name                 string  `json:"name"`
	Category             string  `json:"category"`
	Style                string  `json:"style"`
	Image                string  `json:"image"`
	Confidence           float64 `json:"confidence"`
	RecommendationSource string  `json:"recommendation_source"`
}

// RecommendationResponse is the body of a successful recommendation call.
type RecommendationResponse struct {
	Products []ProductResponse `json:"products"`
}

func newRecommendationResponse(recs []recommend.Recommendation) *RecommendationResponse {
	products := make([]ProductResponse, len(recs))
	for i := range recs {
		products[i] = ProductResponse{
			Name:                 recs[i].Name,
			Category:             recs[i].Category,
			Style:                recs[i].Style,
			Image:                recs[i].ImageRef,
			Confidence:           recs[i].Confidence,
			RecommendationSource: recs[i].Tier.String(),
		}
	}
	return &RecommendationResponse{Products: products}
}

// decodeRecommendationRequest reads and validates the request body.
// The returned APIError is ready to be written with status 400.
func decodeRecommendationRequest(w http.ResponseWriter, r *http.Request) (*RecommendationRequest, *APIError) {
	var req RecommendationRequest

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return nil, &APIError{Code: ErrCodeBadRequest, Message: "Request body is required"}
		case errors.As(err, &maxErr):
			return nil, &APIError{Code: ErrCodeBadRequest, Message: fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit)}
		default:
			return nil, &APIError{Code: ErrCodeBadRequest, Message: "Invalid JSON body"}
		}
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		v := verr.ToAPIError()
		return nil, &APIError{Code: v.Code, Message: v.Message, Details: v.Details}
	}

	return &req, nil
}
