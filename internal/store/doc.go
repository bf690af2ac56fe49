// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package store provides read access to the social content documents
// (users, posts, comments) the ranking core consumes.
//
// The ContentStore interface is the only thing the feed and suggestion
// services see. Two implementations exist:
//
//   - Badger: an embedded document store keeping JSON documents under
//     user:/post:/comment: key prefixes. Queries are prefix scans with
//     in-process filtering; at the corpus sizes this core serves that is
//     cheaper than maintaining secondary indexes.
//   - Memory: a map-backed store for tests and single-process dev mode.
//
// The ranking core never writes social documents; the Put methods on the
// concrete types exist for seeding and for the ingest path that mirrors
// the upstream application's writes.
package store
