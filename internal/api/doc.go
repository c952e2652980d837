// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

/*
Package api provides the HTTP JSON API for Roomstyle.

Endpoints:

  - GET  /api/categories       distinct product categories
  - GET  /api/styles           distinct design styles
  - GET  /api/flooring         names of Flooring products
  - POST /api/recommendations  tiered product recommendations
  - POST /api/admin/refit      refit the engine from the catalog
  - GET  /api/health           engine, trainer and catalog breaker state
  - GET  /metrics              Prometheus metrics

Every handler reads the serving engine from a recommend.Holder, so a refit
never blocks queries. Recommendation responses are cached in an LRU keyed
by the engine run ID; the cache is cleared whenever a new engine is
swapped in.

Errors use a single envelope:

	{"status":"error","error":{"code":"BAD_REQUEST","message":"...","request_id":"..."}}

Middleware, in order: request ID, real IP, access log, panic recovery,
CORS (go-chi/cors), Prometheus instrumentation, and per-IP rate limiting
(go-chi/httprate) on everything except health and metrics.
*/
package api
