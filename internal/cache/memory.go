// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory implements Store entirely in process. It reproduces the TTL and
// sorted-set ordering semantics of the Redis backend, including tie-breaking
// by member so ZRevRange output is deterministic.
//
// Expired entries are dropped lazily on access; there is no background
// sweeper. All operations are safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	strings map[string]memoryValue
	zsets   map[string]*memoryZSet

	// now is overridable in tests for deterministic expiry.
	now func() time.Time
}

type memoryValue struct {
	value     string
	expiresAt time.Time
}

type memoryZSet struct {
	scores    map[string]float64
	expiresAt time.Time
}

// NewMemory creates an empty in-memory cache store.
func NewMemory() *Memory {
	return &Memory{
		strings: make(map[string]memoryValue),
		zsets:   make(map[string]*memoryZSet),
		now:     time.Now,
	}
}

// expired reports whether a deadline has passed. A zero deadline means no TTL.
func (m *Memory) expired(deadline time.Time) bool {
	return !deadline.IsZero() && m.now().After(deadline)
}

// Get returns the string value at key, or ErrMiss.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	entry, ok := m.strings[key]
	m.mu.RUnlock()

	if !ok || m.expired(entry.expiresAt) {
		return "", ErrMiss
	}
	return entry.value, nil
}

// SetEx stores value at key with the given TTL.
func (m *Memory) SetEx(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.strings[key] = memoryValue{
		value:     value,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// Del removes the given keys from both namespaces.
func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.strings, key)
		delete(m.zsets, key)
	}
	return nil
}

// liveZSet returns the sorted set at key, dropping it if expired.
// Must be called with mu held.
func (m *Memory) liveZSet(key string) *memoryZSet {
	zs, ok := m.zsets[key]
	if !ok {
		return nil
	}
	if m.expired(zs.expiresAt) {
		delete(m.zsets, key)
		return nil
	}
	return zs
}

// ZAdd adds member with score to the sorted set at key.
func (m *Memory) ZAdd(_ context.Context, key, member string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	zs := m.liveZSet(key)
	if zs == nil {
		zs = &memoryZSet{scores: make(map[string]float64)}
		m.zsets[key] = zs
	}
	zs.scores[member] = score
	return nil
}

// ZCard returns the cardinality of the sorted set at key.
func (m *Memory) ZCard(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	zs := m.liveZSet(key)
	if zs == nil {
		return 0, nil
	}
	return int64(len(zs.scores)), nil
}

// ZRevRange returns members at rank [start, stop] by descending score.
// Ties order ascending by member under ZRANGE, so descending here.
func (m *Memory) ZRevRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	zs := m.liveZSet(key)
	if zs == nil {
		return []string{}, nil
	}

	members := make([]string, 0, len(zs.scores))
	for member := range zs.scores {
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool {
		si, sj := zs.scores[members[i]], zs.scores[members[j]]
		if si != sj {
			return si > sj
		}
		return members[i] > members[j]
	})

	n := int64(len(members))
	if start < 0 {
		start = n + start
	}
	if stop < 0 {
		stop = n + stop
	}
	if start < 0 {
		start = 0
	}
	if start >= n || stop < start {
		return []string{}, nil
	}
	if stop >= n {
		stop = n - 1
	}

	out := make([]string, stop-start+1)
	copy(out, members[start:stop+1])
	return out, nil
}

// Expire sets the TTL of an existing key in either namespace.
func (m *Memory) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	deadline := m.now().Add(ttl)
	if entry, ok := m.strings[key]; ok && !m.expired(entry.expiresAt) {
		entry.expiresAt = deadline
		m.strings[key] = entry
		return nil
	}
	if zs := m.liveZSet(key); zs != nil {
		zs.expiresAt = deadline
	}
	return nil
}

// Rename atomically replaces dst with src.
func (m *Memory) Rename(_ context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.strings[src]; ok && !m.expired(entry.expiresAt) {
		m.strings[dst] = entry
		delete(m.strings, src)
		delete(m.zsets, dst)
		return nil
	}
	if zs := m.liveZSet(src); zs != nil {
		m.zsets[dst] = zs
		delete(m.zsets, src)
		delete(m.strings, dst)
		return nil
	}
	return ErrMiss
}

// Ping always succeeds for the in-memory store.
func (m *Memory) Ping(_ context.Context) error {
	return nil
}

// Close drops all entries.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.strings = make(map[string]memoryValue)
	m.zsets = make(map[string]*memoryZSet)
	return nil
}
