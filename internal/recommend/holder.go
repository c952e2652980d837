// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package recommend

import "sync/atomic"

// Holder publishes the current Engine to concurrent readers.
// The zero value holds no engine.
type Holder struct {
	current atomic.Pointer[Engine]
}

// Load returns the current engine or ErrNotFitted before the first Swap.
func (h *Holder) Load() (*Engine, error) {
	e := h.current.Load()
	if e == nil {
		return nil, ErrNotFitted
	}
	return e, nil
}

// Swap publishes e and returns the engine it replaced, if any.
func (h *Holder) Swap(e *Engine) *Engine {
	return h.current.Swap(e)
}
