// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package middleware provides HTTP middleware shared across the API surface:
// request ID propagation wired into the logging context, and Prometheus
// request instrumentation. Router-level concerns with hardened ecosystem
// implementations (CORS, rate limiting, panic recovery) are wired directly
// from the chi ecosystem in the api package.
package middleware
