// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package config loads and validates the server configuration from
// layered sources: built-in defaults, an optional YAML file, and
// KINDRED_-prefixed environment variables, in ascending precedence.
package config
