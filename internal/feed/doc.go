// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package feed assembles and serves personalized post feeds.
//
// The Assembler merges two candidate sources for a subject: recent posts by
// followed users, and recent posts tagged with something the subject liked or
// commented on. When both sources are thin it pads the feed with globally
// recent posts up to a floor, so new users never see an empty feed. The merged
// set is ordered by relevance (likes reward, age decays).
//
// The Service caches the full assembled list per user under a short TTL and
// slices pages out of the cached list. Caching the whole list rather than
// individual pages is what keeps ordering stable across page requests within
// the TTL window.
package feed
