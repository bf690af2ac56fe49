// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package rank implements the pure scoring functions shared by the feed
// assembler and the suggestion refresher. Nothing in this package performs
// I/O; callers fetch graph and tag data up front and pass it in.
//
// Two tag structures live here and must not be conflated:
//
//   - TagAffinity is a frequency map (tag -> occurrence count) built from the
//     posts a user authored or liked. It weights suggestion candidates: a tag
//     the subject engaged with three times contributes 3 per matching
//     candidate post.
//   - TagSet is plain set membership built from liked and commented posts. It
//     selects related feed candidates; frequency is deliberately discarded.
//
// Sharing one structure for both would silently change ranking behavior, so
// they are distinct named types.
package rank
