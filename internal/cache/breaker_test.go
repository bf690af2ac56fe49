// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// failingStore fails every operation with a fixed error.
type failingStore struct {
	Store
	err error
}

func (f *failingStore) Get(_ context.Context, _ string) (string, error) { return "", f.err }
func (f *failingStore) SetEx(_ context.Context, _, _ string, _ time.Duration) error {
	return f.err
}
func (f *failingStore) Ping(_ context.Context) error { return f.err }
func (f *failingStore) Close() error                 { return nil }

func TestBreakerStore_OpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	bs := NewBreakerStore(&failingStore{err: boom}, "test-open")
	ctx := context.Background()

	// The breaker needs at least 10 observed requests before it can trip.
	var lastErr error
	for range 15 {
		_, lastErr = bs.Get(ctx, "k")
	}
	if !errors.Is(lastErr, gobreaker.ErrOpenState) {
		t.Errorf("after repeated failures err = %v, want ErrOpenState", lastErr)
	}
}

func TestBreakerStore_MissesDoNotTrip(t *testing.T) {
	t.Parallel()

	bs := NewBreakerStore(NewMemory(), "test-miss")
	ctx := context.Background()

	for range 20 {
		if _, err := bs.Get(ctx, "absent"); !errors.Is(err, ErrMiss) {
			t.Fatalf("Get() err = %v, want ErrMiss", err)
		}
	}
}

func TestBreakerStore_PassesThroughOperations(t *testing.T) {
	t.Parallel()

	bs := NewBreakerStore(NewMemory(), "test-ops")
	ctx := context.Background()

	if err := bs.SetEx(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}
	got, err := bs.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("Get() = %q, %v; want v, nil", got, err)
	}

	if err := bs.ZAdd(ctx, "lb", "alice", 10); err != nil {
		t.Fatalf("ZAdd() error = %v", err)
	}
	n, err := bs.ZCard(ctx, "lb")
	if err != nil || n != 1 {
		t.Fatalf("ZCard() = %d, %v; want 1, nil", n, err)
	}
	members, err := bs.ZRevRange(ctx, "lb", 0, -1)
	if err != nil || len(members) != 1 || members[0] != "alice" {
		t.Fatalf("ZRevRange() = %v, %v; want [alice], nil", members, err)
	}
}
