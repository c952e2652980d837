// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

// Package logging provides the process-wide zerolog logger.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("category", "Dining").Msg("engine fitted")
//	logging.Ctx(ctx).Warn().Err(err).Msg("catalog fetch failed")
//
// Components take a zerolog.Logger by value and derive their own child:
//
//	logger := logging.WithComponent("trainer")
//
// # Context
//
// The API layer stores a request ID and the trainer stores a fit run ID in
// the request context; Ctx attaches both as fields.
//
// # slog
//
// SlogHandler adapts zerolog to log/slog for libraries that only speak slog,
// such as sutureslog in the supervisor tree.
//
// Always terminate event chains with Msg or Send; an unterminated event is
// never written.
package logging
