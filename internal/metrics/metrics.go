// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_products_served_total",
			Help: "Total number of recommended products returned, by tier",
		},
		[]string{"tier"}, // "flooring_pin", "exact", "partial", "embedding"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of a single recommend call in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	RecommendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_errors_total",
			Help: "Total number of failed recommend calls",
		},
		[]string{"reason"}, // "not_fitted", "other"
	)

	// Training Metrics
	FitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_fit_duration_seconds",
			Help:    "Duration of engine fits in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	FitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_fits_total",
			Help: "Total number of engine fits by result",
		},
		[]string{"trigger", "result"}, // trigger: "startup", "schedule", "manual", "request"; result: "success", "failure", "restored"
	)

	FitLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_fit_last_success_timestamp",
			Help: "Unix timestamp of the last successful fit or restore",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_version",
			Help: "Version of the model currently serving",
		},
	)

	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Number of products in the serving catalog snapshot",
		},
	)

	// Catalog Source Metrics
	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetches_total",
			Help: "Total number of catalog fetches by source and result",
		},
		[]string{"source", "result"},
	)

	CatalogMirrorFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_mirror_fallbacks_total",
			Help: "Total number of times the local catalog mirror served a failed upstream fetch",
		},
	)

	// Response Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of recommendation response cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Total number of recommendation response cache misses",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one recommend call and the tiers of its results.
func RecordRecommendation(duration time.Duration, tiers []string) {
	RecommendDuration.Observe(duration.Seconds())
	for _, tier := range tiers {
		RecommendationsServed.WithLabelValues(tier).Inc()
	}
}

// RecordFit records the outcome of a fit or restore.
func RecordFit(trigger string, duration time.Duration, products int, err error) {
	if err != nil {
		FitTotal.WithLabelValues(trigger, "failure").Inc()
		return
	}

	FitDuration.Observe(duration.Seconds())
	FitTotal.WithLabelValues(trigger, "success").Inc()
	FitLastSuccess.Set(float64(time.Now().Unix()))
	CatalogProducts.Set(float64(products))
}

// RecordRestore records an engine restored from saved model version.
func RecordRestore(version, products int) {
	FitTotal.WithLabelValues("startup", "restored").Inc()
	FitLastSuccess.Set(float64(time.Now().Unix()))
	ModelVersion.Set(float64(version))
	CatalogProducts.Set(float64(products))
}

// RecordCatalogFetch records a catalog fetch from source.
func RecordCatalogFetch(source string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	CatalogFetches.WithLabelValues(source, result).Inc()
}
