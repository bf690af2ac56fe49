// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package api exposes the HTTP surface: personalized feed pages, suggested
// and browsable user pages, a manual suggestion refresh trigger, health, and
// Prometheus metrics. Routing uses the Chi router with ecosystem middleware
// for CORS and rate limiting; all responses share one envelope format.
package api
