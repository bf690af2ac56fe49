// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package cache

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/kindred/internal/logging"
	"github.com/tomtom215/kindred/internal/metrics"
)

// BreakerStore wraps a Store with a circuit breaker. The cache is an
// optimization, not a dependency: when the backing store is down, callers
// fall through to the compute path, and the open breaker makes that fallthrough
// immediate instead of waiting out a connection timeout on every request.
//
// ErrMiss is a normal outcome, not a failure; it never trips the breaker.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

// NewBreakerStore wraps inner with a circuit breaker. The breaker opens after
// a 60% failure rate over at least 10 requests and probes recovery after 30
// seconds; rejected calls surface gobreaker.ErrOpenState to the caller.
func NewBreakerStore(inner Store, name string) *BreakerStore {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Cache circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
	})

	return &BreakerStore{inner: inner, cb: cb, name: name}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func (b *BreakerStore) execute(fn func() (any, error)) (any, error) {
	return b.cb.Execute(fn)
}

func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, errors.New("cache: unexpected breaker result type")
	}
	return typed, nil
}

// Get retrieves a string value with breaker protection.
func (b *BreakerStore) Get(ctx context.Context, key string) (string, error) {
	return castResult[string](b.execute(func() (any, error) {
		return b.inner.Get(ctx, key)
	}))
}

// SetEx stores a string value with a TTL under breaker protection.
func (b *BreakerStore) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.inner.SetEx(ctx, key, value, ttl)
	})
	return err
}

// Del removes keys with breaker protection.
func (b *BreakerStore) Del(ctx context.Context, keys ...string) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.inner.Del(ctx, keys...)
	})
	return err
}

// ZAdd inserts a scored member with breaker protection.
func (b *BreakerStore) ZAdd(ctx context.Context, key, member string, score float64) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.inner.ZAdd(ctx, key, member, score)
	})
	return err
}

// ZCard returns a sorted set's cardinality with breaker protection.
func (b *BreakerStore) ZCard(ctx context.Context, key string) (int64, error) {
	return castResult[int64](b.execute(func() (any, error) {
		return b.inner.ZCard(ctx, key)
	}))
}

// ZRevRange reads a reverse rank range with breaker protection.
func (b *BreakerStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return castResult[[]string](b.execute(func() (any, error) {
		return b.inner.ZRevRange(ctx, key, start, stop)
	}))
}

// Expire sets a key TTL with breaker protection.
func (b *BreakerStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.inner.Expire(ctx, key, ttl)
	})
	return err
}

// Rename renames a key with breaker protection.
func (b *BreakerStore) Rename(ctx context.Context, src, dst string) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.inner.Rename(ctx, src, dst)
	})
	return err
}

// Ping probes the backing store directly, bypassing the breaker so health
// checks report the store's real state while the breaker is open.
func (b *BreakerStore) Ping(ctx context.Context) error {
	return b.inner.Ping(ctx)
}

// Close releases the backing store.
func (b *BreakerStore) Close() error {
	return b.inner.Close()
}
