// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed by the API server at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)

Recommendation Metrics:
  - recommend_products_served_total: Products returned (counter)
    Labels: tier (flooring_pin, exact, partial, embedding)
  - recommend_duration_seconds: Recommend call latency (histogram)
  - recommend_errors_total: Failed recommend calls (counter)
    Labels: reason
  - recommend_cache_hits_total, recommend_cache_misses_total (counters)

Training Metrics:
  - recommend_fit_duration_seconds: Fit duration (histogram)
  - recommend_fits_total: Fits by trigger and result (counter)
  - recommend_fit_last_success_timestamp (gauge)
  - recommend_model_version: Version currently serving (gauge)
  - catalog_products: Products in the serving snapshot (gauge)

Catalog Metrics:
  - catalog_fetches_total: Fetches by source and result (counter)
  - catalog_mirror_fallbacks_total: Fetches served by the local mirror (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
    Labels: name
  - circuit_breaker_requests_total: Labels: name, result
  - circuit_breaker_consecutive_failures: Labels: name
  - circuit_breaker_state_transitions_total: Labels: name, from_state, to_state

# Usage Example

	start := time.Now()
	recs, err := engine.Recommend(query)
	if err == nil {
	    metrics.RecordRecommendation(time.Since(start), tiers(recs))
	}

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
