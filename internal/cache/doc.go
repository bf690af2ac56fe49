// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package cache provides the key-value and sorted-set cache tier used by the
// feed and suggestion services.
//
// The Store interface is deliberately narrow: string get/set-with-TTL/delete
// plus the sorted-set operations the suggestion leaderboard needs (add with
// score, cardinality, reverse rank range, expire, rename). Two
// implementations are provided:
//
//   - Redis: the production backend (redis/go-redis v9)
//   - Memory: an in-process implementation with the same TTL and ordering
//     semantics, used in tests and in single-node dev mode
//
// Rename exists so leaderboard rebuilds can double-buffer: the refresher
// writes a shadow key and renames it over the live key, so readers never
// observe a half-populated set.
//
// The cache is an optimization, not a dependency. Callers treat every
// failure here as a signal to fall back to the computed path; see the
// breaker wiring in the feed and suggest services.
package cache
