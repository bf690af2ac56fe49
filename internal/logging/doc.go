// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package logging provides centralized zerolog-based logging for Kindred.
//
// All packages log through a single global logger configured at startup:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("component", "feed").Msg("assembler ready")
//
// Request handlers should prefer the context-aware entry point so that
// correlation and request IDs propagate into every log line:
//
//	logging.Ctx(ctx).Debug().Str("user_id", userID).Msg("cache miss")
//
// The package also exposes an slog.Handler adapter so libraries that
// require *slog.Logger (the suture event hook) write through zerolog.
//
// Always terminate log chains with .Msg() or .Send(); a chain without a
// terminator is silently dropped by zerolog.
package logging
