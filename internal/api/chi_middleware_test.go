// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/roomstyle/internal/config"
)

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	t.Parallel()

	got := ChiMiddlewareConfigFromSecurity(&config.SecurityConfig{
		CORSOrigins:     []string{"https://shop.example"},
		RateLimitReqs:   5,
		RateLimitWindow: time.Second,
		AdminToken:      "tok",
	})
	if len(got.CORSAllowedOrigins) != 1 || got.RateLimitRequests != 5 ||
		got.RateLimitWindow != time.Second || got.AdminToken != "tok" || got.RateLimitDisabled {
		t.Errorf("config = %+v", got)
	}

	def := ChiMiddlewareConfigFromSecurity(nil)
	if def.RateLimitRequests != 100 || def.RateLimitWindow != time.Minute {
		t.Errorf("defaults = %+v", def)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 2
	mw.RateLimitWindow = time.Hour
	router, _, _ := newTestServer(t, true, mw)

	for i := 0; i < 2; i++ {
		if rec := do(t, router, http.MethodGet, "/api/styles", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}

	rec := do(t, router, http.MethodGet, "/api/styles", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("code = %q", resp.Error.Code)
	}

	// health probes are not limited
	if rec := do(t, router, http.MethodGet, "/api/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 1
	mw.RateLimitDisabled = true
	router, _, _ := newTestServer(t, true, mw)

	for i := 0; i < 5; i++ {
		if rec := do(t, router, http.MethodGet, "/api/styles", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	mw.CORSAllowedOrigins = []string{"https://shop.example"}
	router, _, _ := newTestServer(t, true, mw)

	req := httptest.NewRequest(http.MethodOptions, "/api/recommendations", http.NoBody)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
