// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

// Package storage provides model persistence for fitted recommendation engines.
//
// # Storage Format
//
// Models are stored with metadata in a gob-encoded, gzip-compressed format:
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ModelMetadata, including FormatVersion)
//	  - CompressedData (gzip-compressed gob-encoded recommend.State)
//
// Files are written to a temporary name and renamed into place, so a crash
// never leaves a half-written version behind.
//
// # Usage Example
//
//	store, err := storage.NewStore("/data/models")
//	if err != nil {
//	    return err
//	}
//
//	meta, err := store.SaveEngine(ctx, engine, fitDuration)
//
//	engine, meta, err := store.LoadEngine(ctx, 0, cfg, logger) // 0 = latest
//
// # Errors
//
// Load never falls back to a best-effort decode:
//
//   - ErrModelNotFound: no such name or version
//   - ErrCorrupt: envelope, gzip, checksum or payload decode failure
//   - ErrIncompatibleVersion: file written with another FormatVersion
//
// Legacy catalog dumps are converted only through MigrateLegacy, which the
// operator runs explicitly.
//
// # Thread Safety
//
// All store operations are thread-safe. Saves and deletes take a write lock;
// loads and listings share a read lock.
package storage
