// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tomtom215/roomstyle/internal/api"
	"github.com/tomtom215/roomstyle/internal/catalog"
	"github.com/tomtom215/roomstyle/internal/config"
	"github.com/tomtom215/roomstyle/internal/logging"
	"github.com/tomtom215/roomstyle/internal/recommend"
	"github.com/tomtom215/roomstyle/internal/recommend/storage"
	"github.com/tomtom215/roomstyle/internal/supervisor"
	"github.com/tomtom215/roomstyle/internal/supervisor/services"
	"github.com/tomtom215/roomstyle/internal/trainer"
)

// runServe builds every component and runs the supervisor tree until ctx
// is canceled.
func runServe(ctx context.Context, cfg *config.Config) error {
	logger := logging.Logger()

	logger.Info().
		Str("catalog_source", cfg.Catalog.Source).
		Str("model_dir", cfg.Storage.ModelDir).
		Bool("cache_enabled", cfg.Recommend.Cache.Enabled).
		Dur("train_interval", cfg.Recommend.Training.Interval).
		Msg("Starting Roomstyle")

	source, breaker, mirror, err := buildSource(cfg, logger)
	if err != nil {
		return err
	}
	if mirror != nil {
		defer func() {
			if err := mirror.Close(); err != nil {
				logger.Error().Err(err).Msg("Error closing catalog mirror")
			}
		}()
	}

	store, err := storage.NewStore(cfg.Storage.ModelDir)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}

	holder := &recommend.Holder{}
	tr := trainer.New(source, store, holder, &cfg.Recommend, logger)

	handler := api.NewHandler(holder, tr, &cfg.Recommend)
	tr.OnSwap(handler.InvalidateCache)
	if breaker != nil {
		handler.SetBreakerReporter(breaker)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddTrainingService(tr)
	if cfg.Catalog.Watch && cfg.Catalog.Source == config.SourceFile {
		tree.AddTrainingService(catalog.NewFileWatcher(cfg.Catalog.File, cfg.Catalog.WatchDebounce,
			func(ctx context.Context) error {
				_, err := tr.Refit(ctx, trainer.TriggerCatalog)
				if errors.Is(err, trainer.ErrFitInProgress) {
					return fmt.Errorf("%w: %w", catalog.ErrRefitBusy, err)
				}
				return err
			}, logger))
	}
	if cfg.Recommend.Cache.Enabled {
		tree.AddTrainingService(services.NewCacheJanitorService(handler.CleanupCache, cfg.Recommend.Cache.TTL, logger))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))

	logger.Info().Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logger.Info().Msg("Roomstyle stopped gracefully")
	return nil
}

// buildSource selects the configured catalog source and wraps it with the
// badger mirror when one is configured. The breaker is non-nil only for the
// document store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildSource(cfg *config.Config, logger zerolog.Logger) (catalog.Source, api.BreakerReporter, *catalog.Mirror, error) {
	var (
		source  catalog.Source
		breaker api.BreakerReporter
	)

	switch cfg.Catalog.Source {
	case config.SourceDocumentStore:
		ds := catalog.NewDocumentStoreSource(&cfg.Catalog.DocumentStore, logger)
		source, breaker = ds, ds
	default:
		source = catalog.NewFileSource(cfg.Catalog.File, imageLinker(cfg))
	}

	if cfg.Catalog.MirrorPath == "" {
		return source, breaker, nil, nil
	}

	mirror, err := catalog.OpenMirror(cfg.Catalog.MirrorPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open catalog mirror: %w", err)
	}
	return catalog.NewMirroredSource(source, mirror, logger), breaker, mirror, nil
}

func imageLinker(cfg *config.Config) catalog.ImageLinker {
	ds := cfg.Catalog.DocumentStore
	return catalog.ImageLinker{
		Endpoint:  ds.Endpoint,
		ProjectID: ds.ProjectID,
		BucketID:  ds.BucketID,
	}
}
