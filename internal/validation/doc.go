// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

// Package validation wraps go-playground/validator v10 behind a singleton.
//
// Field names in errors come from json tags (request bodies) or koanf tags
// (configuration), so messages match what the caller actually sent:
//
//	type recommendRequest struct {
//	    Room  string `json:"room" validate:"required,notblank"`
//	    TopN  int    `json:"top_n" validate:"min=0,max=100"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError() // Code: VALIDATION_ERROR
//	}
//
// Custom tags:
//   - notblank: string must contain a non-whitespace character
package validation
