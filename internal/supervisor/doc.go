// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package supervisor builds the suture supervision tree that keeps the
// long-running pieces of the server alive: the HTTP listener and the
// background suggestion refresh loop. Each layer restarts independently
// on failure.
package supervisor
