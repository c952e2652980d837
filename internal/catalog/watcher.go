// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultWatchDebounce is the quiet period used when none is configured.
const DefaultWatchDebounce = 2 * time.Second

// ErrRefitBusy is returned by an onChange callback that could not start a
// refit because another one is running. The watcher retries after the
// debounce period.
var ErrRefitBusy = errors.New("catalog: refit busy")

// FileWatcher calls onChange after the catalog file has been written,
// created or renamed into place and then left alone for the debounce period.
//
// The parent directory is watched rather than the file so that editors and
// deploy tools that replace the file by rename keep being observed.
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context) error
	logger   zerolog.Logger
}

// NewFileWatcher creates a watcher for path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFileWatcher(path string, debounce time.Duration, onChange func(ctx context.Context) error, logger zerolog.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &FileWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
		logger:   logger.With().Str("component", "catalog-watcher").Str("path", path).Logger(),
	}
}

// Serve implements suture.Service. It returns when ctx is canceled or the
// underlying watcher fails.
func (w *FileWatcher) Serve(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info().Dur("debounce", w.debounce).Msg("watching catalog file")

	// Stopped until the first relevant event arms it.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("op", event.Op.String()).Msg("catalog file event")
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			w.logger.Warn().Err(err).Msg("file watcher error")

		case <-timer.C:
			w.logger.Info().Msg("catalog file changed")
			err := w.onChange(ctx)
			switch {
			case err == nil:
			case errors.Is(err, ErrRefitBusy):
				// The running fit may have read the previous file.
				w.logger.Debug().Msg("refit busy, retrying catalog change")
				timer.Reset(w.debounce)
			default:
				w.logger.Warn().Err(err).Msg("refit after catalog change failed")
			}
		}
	}
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// String implements fmt.Stringer for suture event logs.
func (w *FileWatcher) String() string {
	return "catalog-watcher"
}
