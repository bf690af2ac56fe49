// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package cache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

// fixedClock returns a Memory store with a controllable clock.
func fixedClock(t *testing.T) (*Memory, *time.Time) {
	t.Helper()

	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	return m, &now
}

func TestMemory_GetMiss(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	if _, err := m.Get(context.Background(), "absent"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get(absent) err = %v, want ErrMiss", err)
	}
}

func TestMemory_SetExRoundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, now := fixedClock(t)

	if err := m.SetEx(ctx, "k", "v", 5*time.Minute); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}

	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "v" {
		t.Errorf("Get() = %q, want %q", got, "v")
	}

	// Advance past the TTL; the entry must be gone.
	*now = now.Add(5*time.Minute + time.Second)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get() after expiry err = %v, want ErrMiss", err)
	}
}

func TestMemory_ZRevRangeOrdering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	members := map[string]float64{
		"alice": 20, "bob": 6, "carol": 42, "dave": 6,
	}
	for member, score := range members {
		if err := m.ZAdd(ctx, "lb", member, score); err != nil {
			t.Fatalf("ZAdd(%s) error = %v", member, err)
		}
	}

	n, err := m.ZCard(ctx, "lb")
	if err != nil {
		t.Fatalf("ZCard() error = %v", err)
	}
	if n != 4 {
		t.Errorf("ZCard() = %d, want 4", n)
	}

	got, err := m.ZRevRange(ctx, "lb", 0, -1)
	if err != nil {
		t.Fatalf("ZRevRange() error = %v", err)
	}
	// Ties (bob/dave at 6) order descending by member in reverse range.
	want := []string{"carol", "alice", "dave", "bob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ZRevRange() = %v, want %v", got, want)
	}
}

func TestMemory_ZRevRangeWindows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	for i, member := range []string{"e", "d", "c", "b", "a"} {
		if err := m.ZAdd(ctx, "lb", member, float64(i)); err != nil {
			t.Fatalf("ZAdd() error = %v", err)
		}
	}

	tests := []struct {
		name        string
		start, stop int64
		want        []string
	}{
		{"first page", 0, 1, []string{"a", "b"}},
		{"second page", 2, 3, []string{"c", "d"}},
		{"clipped tail", 4, 9, []string{"e"}},
		{"beyond range", 10, 19, []string{}},
		{"inverted", 3, 1, []string{}},
		{"negative stop", 0, -1, []string{"a", "b", "c", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ZRevRange(ctx, "lb", tt.start, tt.stop)
			if err != nil {
				t.Fatalf("ZRevRange() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ZRevRange(%d, %d) = %v, want %v", tt.start, tt.stop, got, tt.want)
			}
		})
	}
}

func TestMemory_ZSetExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, now := fixedClock(t)

	if err := m.ZAdd(ctx, "lb", "alice", 1); err != nil {
		t.Fatalf("ZAdd() error = %v", err)
	}
	if err := m.Expire(ctx, "lb", 300*time.Second); err != nil {
		t.Fatalf("Expire() error = %v", err)
	}

	*now = now.Add(301 * time.Second)
	n, err := m.ZCard(ctx, "lb")
	if err != nil {
		t.Fatalf("ZCard() error = %v", err)
	}
	if n != 0 {
		t.Errorf("ZCard() after expiry = %d, want 0", n)
	}
}

func TestMemory_RenameSwapsLeaderboard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	// Live key holds stale entries; shadow key holds the rebuild.
	if err := m.ZAdd(ctx, "lb", "stale", 1); err != nil {
		t.Fatalf("ZAdd() error = %v", err)
	}
	if err := m.ZAdd(ctx, "lb:next", "fresh", 2); err != nil {
		t.Fatalf("ZAdd() error = %v", err)
	}

	if err := m.Rename(ctx, "lb:next", "lb"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	got, err := m.ZRevRange(ctx, "lb", 0, -1)
	if err != nil {
		t.Fatalf("ZRevRange() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"fresh"}) {
		t.Errorf("ZRevRange() after rename = %v, want [fresh]", got)
	}

	if _, err := m.Get(ctx, "lb:next"); !errors.Is(err, ErrMiss) {
		t.Errorf("shadow key should be gone, got err = %v", err)
	}
}

func TestMemory_RenameMissingSource(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	if err := m.Rename(context.Background(), "absent", "dst"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Rename(absent) err = %v, want ErrMiss", err)
	}
}

func TestMemory_Del(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	if err := m.SetEx(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}
	if err := m.ZAdd(ctx, "lb", "alice", 1); err != nil {
		t.Fatalf("ZAdd() error = %v", err)
	}

	if err := m.Del(ctx, "k", "lb", "absent"); err != nil {
		t.Fatalf("Del() error = %v", err)
	}

	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get(k) after Del err = %v, want ErrMiss", err)
	}
	n, err := m.ZCard(ctx, "lb")
	if err != nil {
		t.Fatalf("ZCard() error = %v", err)
	}
	if n != 0 {
		t.Errorf("ZCard(lb) after Del = %d, want 0", n)
	}
}
