// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

// Package catalog loads the product catalog the engine is fitted on.
//
// Sources:
//   - FileSource reads a JSON documents file ({"documents": [...]}).
//   - DocumentStoreSource pages through a remote document-store collection
//     over REST, behind a rate limiter and a circuit breaker.
//   - MirroredSource wraps either one with a BadgerDB Mirror holding the last
//     good catalog, served when the upstream fails.
//
// Document fields map to products as follows:
//
//	PRODUCT_NAME -> Name
//	CATEGORY     -> Category
//	STYLE        -> Style
//	IMAGE        -> ImageRef (file ids become bucket view URLs)
//
// Sources do not validate records; recommend.Fit rejects malformed ones.
package catalog
