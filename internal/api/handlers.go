// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/roomstyle/internal/cache"
	"github.com/tomtom215/roomstyle/internal/metrics"
	"github.com/tomtom215/roomstyle/internal/recommend"
	"github.com/tomtom215/roomstyle/internal/trainer"
)

// Refitter runs engine fits on demand. *trainer.Trainer satisfies it.
type Refitter interface {
	Refit(ctx context.Context, trigger string) (recommend.Info, error)
	Status() trainer.Status
}

// BreakerReporter exposes an upstream circuit breaker state for health
// checks. *catalog.DocumentStoreSource satisfies it.
type BreakerReporter interface {
	BreakerState() string
}

// Handler serves the recommendation API.
type Handler struct {
	holder    *recommend.Holder
	trainer   Refitter
	cache     *cache.LRU[[]recommend.Recommendation]
	breaker   BreakerReporter
	maxTopN   int
	startTime time.Time
}

// NewHandler creates a handler reading engines from holder. The response
// cache is enabled per cfg.Cache.
func NewHandler(holder *recommend.Holder, refitter Refitter, cfg *recommend.Config) *Handler {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}

	h := &Handler{
		holder:    holder,
		trainer:   refitter,
		maxTopN:   cfg.Limits.MaxTopN,
		startTime: time.Now(),
	}
	if cfg.Cache.Enabled {
		h.cache = cache.NewLRU[[]recommend.Recommendation](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return h
}

// SetBreakerReporter attaches the catalog source breaker to health output.
func (h *Handler) SetBreakerReporter(b BreakerReporter) {
	h.breaker = b
}

// InvalidateCache drops every cached response. It is registered as a
// trainer swap hook.
func (h *Handler) InvalidateCache(*recommend.Engine) {
	if h.cache != nil {
		h.cache.Clear()
	}
}

// CleanupCache removes expired cache entries and returns how many it removed.
func (h *Handler) CleanupCache() int {
	if h.cache == nil {
		return 0
	}
	return h.cache.CleanupExpired()
}

// engine returns the serving engine or writes a 503.
func (h *Handler) engine(w http.ResponseWriter, r *http.Request) (*recommend.Engine, bool) {
	e, err := h.holder.Load()
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Recommendation engine is not ready", nil)
		return nil, false
	}
	return e, true
}

// Categories handles GET /api/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, "categories", (*recommend.Engine).Categories)
}

// Styles handles GET /api/styles.
func (h *Handler) Styles(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, "styles", (*recommend.Engine).Styles)
}

// Flooring handles GET /api/flooring.
func (h *Handler) Flooring(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, "flooring", (*recommend.Engine).FlooringOptions)
}

func (h *Handler) listing(w http.ResponseWriter, r *http.Request, key string, list func(*recommend.Engine) ([]string, error)) {
	e, ok := h.engine(w, r)
	if !ok {
		return
	}

	values, err := list(e)
	if err != nil {
		h.engineError(w, r, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{key: values})
}

// Recommendations handles POST /api/recommendations.
//
// With refreshData set, the engine is refit from the catalog before the
// query runs; a refit already in progress yields 409.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	req, apiErr := decodeRecommendationRequest(w, r)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}
	if h.maxTopN > 0 && req.TopN > h.maxTopN {
		respondAPIError(w, r, http.StatusBadRequest, &APIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("top_n must be at most %d", h.maxTopN),
		})
		return
	}

	if req.RefreshData {
		if !h.refit(w, r, trainer.TriggerRequest) {
			return
		}
	}

	e, ok := h.engine(w, r)
	if !ok {
		return
	}

	start := time.Now()
	recs, hit, err := h.recommend(e, req.Query())
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	if !hit {
		tiers := make([]string, len(recs))
		for i := range recs {
			tiers[i] = recs[i].Tier.String()
		}
		metrics.RecordRecommendation(time.Since(start), tiers)
	}

	respondJSON(w, http.StatusOK, newRecommendationResponse(recs))
}

// recommend answers q from the cache when possible.
//
//nolint:gocritic // hugeParam: Query is passed by value for immutability
func (h *Handler) recommend(e *recommend.Engine, q recommend.Query) ([]recommend.Recommendation, bool, error) {
	if h.cache == nil {
		recs, err := e.Recommend(q)
		return recs, false, err
	}

	info, err := e.Info()
	if err != nil {
		return nil, false, err
	}

	key := cacheKey(info.RunID, q)
	if recs, ok := h.cache.Get(key); ok {
		metrics.CacheHits.Inc()
		return recs, true, nil
	}
	metrics.CacheMisses.Inc()

	recs, err := e.Recommend(q)
	if err != nil {
		return nil, false, err
	}
	h.cache.Add(key, recs)
	return recs, false, nil
}

// cacheKey scopes a query to the engine run that answers it, so a response
// computed by a replaced engine is never served.
//
//nolint:gocritic // hugeParam: Query is passed by value for immutability
func cacheKey(runID string, q recommend.Query) string {
	return runID + "\x00" + q.Category + "\x00" + q.Style + "\x00" + q.Flooring + "\x00" + strconv.Itoa(q.TopN)
}

func (h *Handler) engineError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, recommend.ErrNotFitted) {
		metrics.RecommendErrors.WithLabelValues("not_fitted").Inc()
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Recommendation engine is not ready", nil)
		return
	}
	metrics.RecommendErrors.WithLabelValues("other").Inc()
	respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError,
		"Failed to generate recommendations", err)
}

// Refit handles POST /api/admin/refit.
func (h *Handler) Refit(w http.ResponseWriter, r *http.Request) {
	if !h.refit(w, r, trainer.TriggerManual) {
		return
	}

	e, ok := h.engine(w, r)
	if !ok {
		return
	}
	info, err := e.Info()
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"engine": info,
	})
}

// refit runs a fit and writes the error response when it fails.
func (h *Handler) refit(w http.ResponseWriter, r *http.Request, trigger string) bool {
	if h.trainer == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Refitting is not available", nil)
		return false
	}

	_, err := h.trainer.Refit(r.Context(), trigger)
	switch {
	case err == nil:
		return true
	case errors.Is(err, trainer.ErrFitInProgress):
		respondError(w, r, http.StatusConflict, ErrCodeConflict,
			"A refit is already in progress", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeFitFailed,
			"Failed to refit the recommendation engine", err)
	}
	return false
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status         string          `json:"status"`
	Fitted         bool            `json:"fitted"`
	Engine         *recommend.Info `json:"engine,omitempty"`
	Trainer        *trainer.Status `json:"trainer,omitempty"`
	CatalogBreaker string          `json:"catalog_breaker,omitempty"`
	UptimeSeconds  float64         `json:"uptime_seconds"`
}

// Health handles GET /api/health. It answers 200 once an engine is serving
// and 503 before that.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:        "healthy",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if e, err := h.holder.Load(); err == nil {
		if info, err := e.Info(); err == nil {
			health.Fitted = true
			health.Engine = &info
		}
	}
	if h.trainer != nil {
		st := h.trainer.Status()
		health.Trainer = &st
	}
	if h.breaker != nil {
		health.CatalogBreaker = h.breaker.BreakerState()
	}

	status := http.StatusOK
	if !health.Fitted {
		health.Status = "unavailable"
		status = http.StatusServiceUnavailable
	} else if health.CatalogBreaker == "open" {
		health.Status = "degraded"
	}

	respondJSON(w, status, &health)
}
