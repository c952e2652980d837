// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

// Package recommend implements the furniture recommendation engine.
//
// # Architecture
//
// A query (category, style, optional flooring) runs through a strict cascade:
//
//   - Flooring pin: a flooring value naming a catalog product is always
//     included with confidence 100.
//   - Exact tier: products matching category and style, confidence 100.
//   - Partial tier: products of the category ranked by TF-IDF similarity of
//     their style to the query style, confidence up to 80.
//   - Embedding tier: the query is projected into the fitted feature space,
//     embedded and compared against every eligible product, confidence up
//     to 50.
//
// The first tier that yields products wins. Its output is merged with the
// pin, deduplicated by name and truncated.
//
// # Subpackages
//
//   - features: TF-IDF, one-hot and standardization into a frozen space
//   - embedding: autoencoder and factorization strategies
//   - similarity: cosine primitives
//   - storage: versioned on-disk snapshots
//
// # Usage
//
//	engine, err := recommend.Fit(ctx, products, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	holder.Swap(engine)
//
//	recs, err := engine.Recommend(recommend.Query{
//	    Category: "Dining",
//	    Style:    "Modern",
//	    Flooring: "Matte Tiles",
//	    TopN:     5,
//	})
//
// # Thread Safety
//
// An Engine never changes after Fit or Restore. Refits build a new Engine and
// publish it through a Holder, so readers never observe partial state.
package recommend
