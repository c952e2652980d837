// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

/*
Package cache provides a thread-safe LRU cache with TTL support.

The API uses it to memoize recommendation responses. Keys embed the run id
of the engine that produced the answer, so entries computed against a
replaced engine can never be served; the cache is also cleared on every
engine swap to release their memory.

# Usage Example

	c := cache.NewLRU[[]recommend.Recommendation](1000, 5*time.Minute)

	if recs, ok := c.Get(key); ok {
	    return recs
	}
	recs, err := engine.Recommend(q)
	if err == nil {
	    c.Add(key, recs)
	}

# Expiration

Expired entries are dropped lazily on Get. CleanupExpired removes all of
them at once and is meant for a periodic janitor.

# Thread Safety

All methods are safe for concurrent use. Get takes the write lock because a
hit reorders the list.
*/
package cache
