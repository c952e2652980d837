// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/roomstyle/internal/metrics"
	"github.com/tomtom215/roomstyle/internal/recommend"
)

// ErrMirrorEmpty is returned by Mirror.Load before any catalog was saved.
var ErrMirrorEmpty = errors.New("catalog mirror is empty")

const mirrorSnapshotKey = "catalog:snapshot"

type mirrorRecord struct {
	Source   string              `json:"source"`
	SavedAt  time.Time           `json:"saved_at"`
	Products []recommend.Product `json:"products"`
}

// Mirror keeps the last successfully fetched catalog in BadgerDB so the
// service can still fit an engine when the upstream is unreachable.
type Mirror struct {
	db *badger.DB
}

// OpenMirror opens (or creates) a mirror at path. An empty path opens an
// in-memory mirror that does not survive restarts.
func OpenMirror(path string) (*Mirror, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog mirror: %w", err)
	}
	return &Mirror{db: db}, nil
}

// Close closes the underlying database.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// Save replaces the mirrored catalog.
func (m *Mirror) Save(ctx context.Context, source string, products []recommend.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(mirrorRecord{
		Source:   source,
		SavedAt:  time.Now().UTC(),
		Products: products,
	})
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(mirrorSnapshotKey), data); err != nil {
			return fmt.Errorf("set catalog snapshot: %w", err)
		}
		return nil
	})
}

// Load returns the mirrored catalog and when it was saved.
func (m *Mirror) Load(ctx context.Context) ([]recommend.Product, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, time.Time{}, err
	}

	var rec mirrorRecord
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(mirrorSnapshotKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrMirrorEmpty
		}
		if err != nil {
			return fmt.Errorf("get catalog snapshot: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, time.Time{}, err
	}

	return rec.Products, rec.SavedAt, nil
}

// MirroredSource reads from an upstream Source, refreshing the mirror with
// every fetched catalog that could be fitted and serving the mirror when the
// upstream fails.
type MirroredSource struct {
	upstream Source
	mirror   *Mirror
	logger   zerolog.Logger
}

// NewMirroredSource wraps upstream with mirror.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMirroredSource(upstream Source, mirror *Mirror, logger zerolog.Logger) *MirroredSource {
	return &MirroredSource{
		upstream: upstream,
		mirror:   mirror,
		logger:   logger.With().Str("component", "catalog").Str("source", upstream.Name()).Logger(),
	}
}

// Name implements Source.
func (s *MirroredSource) Name() string {
	return s.upstream.Name()
}

// Products implements Source.
func (s *MirroredSource) Products(ctx context.Context) ([]recommend.Product, error) {
	products, err := s.upstream.Products(ctx)
	if err == nil {
		// The fit reports an invalid catalog; the mirror keeps the last good one.
		if verr := recommend.ValidateCatalog(products); verr != nil {
			s.logger.Warn().Err(verr).Msg("upstream catalog is invalid, mirror not refreshed")
		} else if serr := s.mirror.Save(ctx, s.upstream.Name(), products); serr != nil {
			s.logger.Warn().Err(serr).Msg("failed to refresh catalog mirror")
		}
		return products, nil
	}

	// A cancelled caller does not want stale data either.
	if ctx.Err() != nil {
		return nil, err
	}

	cached, savedAt, merr := s.mirror.Load(ctx)
	if merr != nil {
		return nil, fmt.Errorf("%w (mirror unavailable: %v)", err, merr)
	}

	metrics.CatalogMirrorFallbacks.Inc()
	s.logger.Warn().
		Err(err).
		Time("mirror_saved_at", savedAt).
		Int("products", len(cached)).
		Msg("upstream catalog unavailable, serving mirror")
	return cached, nil
}
