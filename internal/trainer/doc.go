// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

// Package trainer owns the engine lifecycle: fitting from the catalog
// source, persisting to the model store and swapping the result into the
// serving recommend.Holder.
//
// Refits are single-flight. A request that arrives while a fit runs gets
// ErrFitInProgress immediately instead of queueing. A failed fit leaves the
// serving engine in place.
//
// Trainer implements suture.Service: Serve bootstraps (restore the latest
// saved model, else fit) and then refits on the configured interval.
package trainer
