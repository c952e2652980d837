// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package trainer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/roomstyle/internal/catalog"
	"github.com/tomtom215/roomstyle/internal/logging"
	"github.com/tomtom215/roomstyle/internal/metrics"
	"github.com/tomtom215/roomstyle/internal/recommend"
	"github.com/tomtom215/roomstyle/internal/recommend/storage"
)

// Fit triggers, used as metric labels.
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerRequest  = "request"
	TriggerCatalog  = "catalog_change"
)

// ErrFitInProgress is returned by Refit while another fit is running.
var ErrFitInProgress = errors.New("trainer: fit already in progress")

// ModelStore persists fitted engines. *storage.Store satisfies it.
type ModelStore interface {
	SaveEngine(ctx context.Context, e *recommend.Engine, fitDuration time.Duration) (*storage.ModelMetadata, error)
	LoadEngine(ctx context.Context, version int, cfg *recommend.Config, logger zerolog.Logger) (*recommend.Engine, *storage.ModelMetadata, error)
	Prune(ctx context.Context, name string, keepVersions int) (int, error)
}

// Status describes the trainer for health checks.
type Status struct {
	Fitting      bool      `json:"fitting"`
	Version      int       `json:"model_version,omitempty"`
	LastFit      time.Time `json:"last_fit,omitempty"`
	LastTrigger  string    `json:"last_trigger,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	LastErrorAt  time.Time `json:"last_error_at,omitempty"`
	LastDuration string    `json:"last_duration,omitempty"`
}

// Trainer fits engines from a catalog source and publishes them through a
// Holder. At most one fit runs at a time; readers keep using the previous
// engine until the new one is swapped in.
type Trainer struct {
	source catalog.Source
	store  ModelStore
	holder *recommend.Holder
	config *recommend.Config
	logger zerolog.Logger

	fitting atomic.Bool

	mu     sync.Mutex
	status Status
	onSwap []func(*recommend.Engine)
}

// New creates a trainer. store may be nil, in which case fitted engines are
// not persisted and startup always fits.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(source catalog.Source, store ModelStore, holder *recommend.Holder, cfg *recommend.Config, logger zerolog.Logger) *Trainer {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	return &Trainer{
		source: source,
		store:  store,
		holder: holder,
		config: cfg.Clone(),
		logger: logger.With().Str("component", "trainer").Logger(),
	}
}

// OnSwap registers fn to run after every engine swap. Hooks run
// synchronously on the fitting goroutine.
func (t *Trainer) OnSwap(fn func(*recommend.Engine)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSwap = append(t.onSwap, fn)
}

// Status returns a snapshot of the trainer state.
func (t *Trainer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.status
	st.Fitting = t.fitting.Load()
	return st
}

// Refit loads the catalog, fits a new engine, saves it and swaps it in.
// It returns ErrFitInProgress without waiting when a fit is already running.
// On failure the serving engine is left untouched.
func (t *Trainer) Refit(ctx context.Context, trigger string) (recommend.Info, error) {
	if !t.fitting.CompareAndSwap(false, true) {
		return recommend.Info{}, ErrFitInProgress
	}
	defer t.fitting.Store(false)

	ctx = logging.ContextWithRunID(ctx, logging.GenerateRequestID())
	logger := t.logger.With().Str("trigger", trigger).Str("fit_id", logging.RunIDFromContext(ctx)).Logger()
	logger.Info().Str("source", t.source.Name()).Msg("starting engine fit")

	start := time.Now()
	engine, products, err := t.fit(ctx)
	duration := time.Since(start)
	metrics.RecordFit(trigger, duration, products, err)
	if err != nil {
		t.recordFailure(trigger, err)
		logger.Error().Err(err).Dur("duration", duration).Msg("engine fit failed")
		return recommend.Info{}, err
	}

	version := t.persist(ctx, logger, engine, duration)
	t.publish(engine, version)

	info, err := engine.Info()
	if err != nil {
		return recommend.Info{}, err
	}

	t.mu.Lock()
	t.status.LastFit = info.FittedAt
	t.status.LastTrigger = trigger
	t.status.LastDuration = duration.Round(time.Millisecond).String()
	t.status.Version = version
	t.mu.Unlock()

	logger.Info().
		Str("run_id", info.RunID).
		Int("products", info.Products).
		Int("model_version", version).
		Dur("duration", duration).
		Msg("engine fit complete")

	return info, nil
}

func (t *Trainer) fit(ctx context.Context) (*recommend.Engine, int, error) {
	products, err := t.source.Products(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load catalog from %s: %w", t.source.Name(), err)
	}

	fitCtx, cancel := context.WithTimeout(ctx, t.config.Training.Timeout)
	defer cancel()

	engine, err := recommend.Fit(fitCtx, products, t.config, t.logger)
	if err != nil {
		return nil, len(products), err
	}
	return engine, len(products), nil
}

// persist saves engine and prunes old versions. Storage failures are logged
// and do not block publishing a freshly fitted engine. It returns the saved
// version, or 0 when nothing was saved.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (t *Trainer) persist(ctx context.Context, logger zerolog.Logger, engine *recommend.Engine, duration time.Duration) int {
	if t.store == nil {
		return 0
	}

	meta, err := t.store.SaveEngine(ctx, engine, duration)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to save fitted engine")
		return 0
	}

	removed, err := t.store.Prune(ctx, storage.EngineModelName, t.config.Training.RetainVersions)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to prune old model versions")
	} else if removed > 0 {
		logger.Debug().Int("removed", removed).Msg("pruned old model versions")
	}

	return meta.Version
}

func (t *Trainer) publish(engine *recommend.Engine, version int) {
	t.holder.Swap(engine)
	metrics.ModelVersion.Set(float64(version))

	t.mu.Lock()
	hooks := append(([]func(*recommend.Engine))(nil), t.onSwap...)
	t.mu.Unlock()

	for _, fn := range hooks {
		fn(engine)
	}
}

func (t *Trainer) recordFailure(trigger string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.LastTrigger = trigger
	t.status.LastError = err.Error()
	t.status.LastErrorAt = time.Now()
}

// Bootstrap makes an engine available: the latest saved model is restored
// when present, otherwise a fresh fit runs. A saved model that is corrupt or
// written in another format is reported and then replaced by a fresh fit;
// it is never decoded best-effort.
func (t *Trainer) Bootstrap(ctx context.Context) error {
	if t.store != nil {
		engine, meta, err := t.store.LoadEngine(ctx, 0, t.config, t.logger)
		switch {
		case err == nil:
			t.publish(engine, meta.Version)
			metrics.RecordRestore(meta.Version, meta.ProductCount)

			t.mu.Lock()
			t.status.LastFit = meta.TrainedAt
			t.status.LastTrigger = TriggerStartup
			t.status.Version = meta.Version
			t.mu.Unlock()

			t.logger.Info().
				Int("model_version", meta.Version).
				Str("run_id", meta.RunID).
				Int("products", meta.ProductCount).
				Msg("restored saved engine")
			return nil

		case errors.Is(err, storage.ErrModelNotFound):
			t.logger.Info().Msg("no saved engine, fitting from catalog")

		case errors.Is(err, storage.ErrCorrupt), errors.Is(err, storage.ErrIncompatibleVersion):
			t.logger.Error().Err(err).Msg("saved engine unusable, fitting from catalog")

		default:
			return fmt.Errorf("load saved engine: %w", err)
		}
	}

	_, err := t.Refit(ctx, TriggerStartup)
	return err
}
