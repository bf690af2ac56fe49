// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package services contains suture.Service wrappers that adapt the
// server's long-running components (HTTP listener, suggestion refresh
// loop) to the supervisor's Serve(ctx) lifecycle.
package services
