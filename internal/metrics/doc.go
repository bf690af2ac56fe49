// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package metrics defines the Prometheus instruments exported at /metrics.
// Collectors are registered once at package init via promauto; services
// record into the package-level instruments directly.
package metrics
