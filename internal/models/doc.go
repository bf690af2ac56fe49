// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package models defines the shared data structures for Kindred.
//
// User, Post and Comment mirror the documents held by the content store.
// They are read-only to the ranking core: follow-graph consistency
// (A follows B implies B in A.Following and A in B.Followers) is maintained
// by the upstream social application, never here.
//
// ScoredPost attaches a relevance score to a post during feed assembly
// without mutating the post record itself.
package models
