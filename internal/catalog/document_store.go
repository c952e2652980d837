// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/roomstyle/internal/config"
	"github.com/tomtom215/roomstyle/internal/logging"
	"github.com/tomtom215/roomstyle/internal/metrics"
	"github.com/tomtom215/roomstyle/internal/recommend"
)

const (
	breakerName = "document-store"

	// maxErrorBodySize bounds how much of an error response is read.
	maxErrorBodySize = 64 * 1024

	// maxPages stops a misbehaving server from paging forever.
	maxPages = 10000
)

// DocumentStoreSource pages through a remote document-store collection.
//
// Every page request passes through a token-bucket limiter and a circuit
// breaker; HTTP 429 responses are retried with exponential backoff that
// honors Retry-After.
type DocumentStoreSource struct {
	cfg     config.DocumentStoreConfig
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[interface{}]
	links   ImageLinker
	logger  zerolog.Logger

	maxRetries     int
	retryBaseDelay time.Duration
}

// NewDocumentStoreSource creates a client for the collection in cfg.
//
// Circuit breaker configuration:
//   - Max 3 requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDocumentStoreSource(cfg *config.DocumentStoreConfig, logger zerolog.Logger) *DocumentStoreSource {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &DocumentStoreSource{
		cfg:     *cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		cb:      cb,
		links: ImageLinker{
			Endpoint:  cfg.Endpoint,
			ProjectID: cfg.ProjectID,
			BucketID:  cfg.BucketID,
		},
		logger:         logger.With().Str("component", "catalog").Str("source", "document_store").Logger(),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: time.Second,
	}
}

// Name implements Source.
func (s *DocumentStoreSource) Name() string {
	return "document_store"
}

// Products implements Source. It fetches pages of PageSize documents until
// the collection total is reached or a short page is returned.
func (s *DocumentStoreSource) Products(ctx context.Context) ([]recommend.Product, error) {
	products, err := s.fetchAll(ctx)
	metrics.RecordCatalogFetch(s.Name(), err)
	return products, err
}

func (s *DocumentStoreSource) fetchAll(ctx context.Context) ([]recommend.Product, error) {
	start := time.Now()
	var products []recommend.Product

	for page, offset := 0, 0; page < maxPages; page++ {
		list, err := castResult[DocumentList](s.execute(func() (interface{}, error) {
			return s.fetchPage(ctx, offset)
		}))
		if err != nil {
			return nil, fmt.Errorf("fetch documents at offset %d: %w", offset, err)
		}

		for _, d := range list.Documents {
			products = append(products, d.Product(s.links))
		}
		offset += len(list.Documents)

		if len(list.Documents) < s.cfg.PageSize || (list.Total > 0 && offset >= list.Total) {
			s.logger.Debug().
				Int("products", len(products)).
				Int("pages", page+1).
				Dur("duration", time.Since(start)).
				Msg("catalog fetched")
			return products, nil
		}
	}

	return nil, fmt.Errorf("fetch documents: exceeded %d pages", maxPages)
}

func (s *DocumentStoreSource) fetchPage(ctx context.Context, offset int) (*DocumentList, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.doRequestWithRateLimit(ctx, s.pageURL(offset))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("list documents failed with status %d: %s", resp.StatusCode, string(body))
	}

	list, err := ParseDocuments(resp.Body)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// pageURL builds the list-documents URL for one page.
func (s *DocumentStoreSource) pageURL(offset int) string {
	params := url.Values{}
	params.Add("queries[]", queryJSON("limit", s.cfg.PageSize))
	params.Add("queries[]", queryJSON("offset", offset))

	return fmt.Sprintf("%s/databases/%s/collections/%s/documents?%s",
		strings.TrimRight(s.cfg.Endpoint, "/"),
		url.PathEscape(s.cfg.DatabaseID),
		url.PathEscape(s.cfg.CollectionID),
		params.Encode())
}

func queryJSON(method string, value int) string {
	return `{"method":"` + method + `","values":[` + strconv.Itoa(value) + `]}`
}

// doRequestWithRateLimit performs a GET, retrying HTTP 429 responses with
// exponential backoff (1s, 2s, 4s, ...) or the server's Retry-After.
func (s *DocumentStoreSource) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Appwrite-Project", s.cfg.ProjectID)
		req.Header.Set("X-Appwrite-Key", s.cfg.APIKey)

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt >= s.maxRetries {
			return nil, fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", s.maxRetries)
		}

		delay := s.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		s.logger.Debug().Int("attempt", attempt+1).Dur("delay", delay).Msg("document store rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// execute runs fn through the circuit breaker and records the outcome.
func (s *DocumentStoreSource) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := s.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
			counts := s.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	return result, nil
}

// BreakerState reports the circuit breaker state for health checks.
func (s *DocumentStoreSource) BreakerState() string {
	return stateToString(s.cb.State())
}

func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// readBodyForError reads at most maxErrorBodySize bytes for error messages.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
