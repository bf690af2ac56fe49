// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package suggest maintains and serves per-user follow suggestions.
//
// The Refresher rebuilds each subject's leaderboard wholesale: it scores every
// non-connected user by mutual follows and tag affinity, writes the positive
// scorers into a shadow sorted set, then renames the shadow over the live key.
// The rename keeps readers from ever observing a half-built or empty
// leaderboard mid-rebuild. A scheduled run covers the whole population; the
// Service triggers a single-subject rebuild lazily when a request finds the
// leaderboard expired.
//
// The Service serves pages by reverse rank range from the sorted set, with a
// short-TTL page cache in front, and falls back to direct in-process scoring
// when the cache store is unavailable.
package suggest
