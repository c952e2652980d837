// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

/*
Package services adapts Roomstyle components to suture's Serve(ctx) model.

  - HTTPServerService: ListenAndServe with graceful Shutdown on cancel
  - CacheJanitorService: periodic sweep of expired response cache entries

The trainer implements suture.Service itself and needs no wrapper.
*/
package services
