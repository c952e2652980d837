// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/roomstyle/internal/middleware"
)

// NewRouter wires the handler into a chi router.
func NewRouter(h *Handler, mwConfig *ChiMiddlewareConfig) http.Handler {
	mw := NewChiMiddleware(mwConfig)
	r := chi.NewRouter()

	// Applied to all routes, in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(middleware.DefaultSlowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		// Health stays outside the limiter for monitoring probes
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())

			r.Get("/categories", h.Categories)
			r.Get("/styles", h.Styles)
			r.Get("/flooring", h.Flooring)
			r.Post("/recommendations", h.Recommendations)

			r.With(mw.RequireAdmin()).Post("/admin/refit", h.Refit)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
