// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss indicates the key does not exist or has expired.
// Callers must treat a miss as "compute it", never as a failure.
var ErrMiss = errors.New("cache: key not found")

// Store is the narrow cache adapter the ranking core depends on.
//
// Single-key operations are atomic in both implementations; no cross-key
// transaction is offered or required.
type Store interface {
	// Get returns the string value at key, or ErrMiss.
	Get(ctx context.Context, key string) (string, error)

	// SetEx stores value at key with the given TTL.
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error

	// Del removes the given keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error

	// ZAdd adds member with score to the sorted set at key, creating the
	// set if needed. Re-adding a member updates its score.
	ZAdd(ctx context.Context, key, member string, score float64) error

	// ZCard returns the cardinality of the sorted set at key
	// (zero for a missing key).
	ZCard(ctx context.Context, key string) (int64, error)

	// ZRevRange returns members at rank [start, stop] inclusive, ordered
	// by score descending. Out-of-range ranks clip to an empty result.
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// Expire sets the TTL of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Rename atomically replaces dst with src. Returns ErrMiss when src
	// does not exist.
	Rename(ctx context.Context, src, dst string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
