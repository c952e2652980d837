// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultJanitorInterval is how often expired cache entries are swept.
const DefaultJanitorInterval = time.Minute

// CacheJanitorService periodically sweeps expired entries from the
// recommendation response cache. cleanup returns how many it removed.
type CacheJanitorService struct {
	cleanup  func() int
	interval time.Duration
	logger   zerolog.Logger
}

// NewCacheJanitorService creates a janitor calling cleanup every interval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(cleanup func() int, interval time.Duration, logger zerolog.Logger) *CacheJanitorService {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &CacheJanitorService{
		cleanup:  cleanup,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.cleanup(); n > 0 {
				s.logger.Debug().Int("removed", n).Msg("expired cache entries removed")
			}
		}
	}
}

// String implements fmt.Stringer for suture event logs.
func (s *CacheJanitorService) String() string {
	return "cache-janitor"
}
