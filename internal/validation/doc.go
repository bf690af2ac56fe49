// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package validation provides struct validation using go-playground/validator
// v10 through a thread-safe singleton instance. Handlers validate their
// request structs and translate failures into the API's VALIDATION_ERROR
// response format.
package validation
