// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFitted is returned by every query operation on an engine that has
	// not been fitted or restored.
	ErrNotFitted = errors.New("recommend: engine not fitted")

	// ErrEmptyCatalog is returned when fitting on zero products.
	ErrEmptyCatalog = errors.New("recommend: empty catalog")
)

// MalformedRecordError reports a catalog record that cannot be fitted.
type MalformedRecordError struct {
	// Index is the position of the record in the catalog passed to Fit.
	Index int

	// Name is the product name, possibly empty.
	Name string

	// Field names the missing field, or "name" with Duplicate set.
	Field string

	// Duplicate is set when Name already appeared earlier in the catalog.
	Duplicate bool
}

func (e *MalformedRecordError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("recommend: catalog record %d: duplicate product name %q", e.Index, e.Name)
	}
	return fmt.Sprintf("recommend: catalog record %d (%q): missing %s", e.Index, e.Name, e.Field)
}
