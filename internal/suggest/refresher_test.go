// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package suggest

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/kindred/internal/cache"
	"github.com/tomtom215/kindred/internal/models"
	"github.com/tomtom215/kindred/internal/store"
)

func mustPutUser(t *testing.T, s *store.Memory, u models.User) {
	t.Helper()
	if err := s.PutUser(context.Background(), &u); err != nil {
		t.Fatalf("PutUser(%s) error = %v", u.ID, err)
	}
}

func mustPutPost(t *testing.T, s *store.Memory, p models.Post) {
	t.Helper()
	if err := s.PutPost(context.Background(), &p); err != nil {
		t.Fatalf("PutPost(%s) error = %v", p.ID, err)
	}
}

// seedGraph installs the standard fixture:
//
//	sara follows alpha and beta; both follow carol, alpha also follows dave.
//	sara liked three posts tagged art; dave authored two art posts.
//	emma is unconnected and untagged, so her score for sara is zero.
func seedGraph(t *testing.T, s *store.Memory) {
	t.Helper()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	users := []models.User{
		{ID: "sara", Following: []string{"alpha", "beta"}, LikedPosts: []string{"l1", "l2", "l3"}},
		{ID: "alpha", Following: []string{"carol", "dave"}, Followers: []string{"sara"}},
		{ID: "beta", Following: []string{"carol"}, Followers: []string{"sara"}},
		{ID: "carol", Followers: []string{"alpha", "beta"}},
		{ID: "dave", Followers: []string{"alpha"}},
		{ID: "emma"},
	}
	for i := range users {
		mustPutUser(t, s, users[i])
	}

	posts := []models.Post{
		{ID: "l1", Creator: "poster", Tags: []string{"art"}, Likes: []string{"sara"}, CreatedAt: base},
		{ID: "l2", Creator: "poster", Tags: []string{"art"}, Likes: []string{"sara"}, CreatedAt: base},
		{ID: "l3", Creator: "poster", Tags: []string{"art"}, Likes: []string{"sara"}, CreatedAt: base},
		{ID: "d1", Creator: "dave", Tags: []string{"art"}, CreatedAt: base},
		{ID: "d2", Creator: "dave", Tags: []string{"art"}, CreatedAt: base},
	}
	for i := range posts {
		mustPutPost(t, s, posts[i])
	}
}

func TestRefreshUser_ScoresAndOrders(t *testing.T) {
	t.Parallel()

	s := store.NewMemory()
	seedGraph(t, s)
	c := cache.NewMemory()
	r := NewRefresher(s, c)
	ctx := context.Background()

	if err := r.RefreshUser(ctx, "sara"); err != nil {
		t.Fatalf("RefreshUser() error = %v", err)
	}

	members, err := c.ZRevRange(ctx, LeaderboardKey("sara"), 0, -1)
	if err != nil {
		t.Fatalf("ZRevRange() error = %v", err)
	}
	// carol: 2 mutuals = 20. dave: 1 mutual + affinity 3 on each of two art
	// posts = 10 + 6 = 16. emma: zero, dropped.
	if len(members) != 2 || members[0] != "carol" || members[1] != "dave" {
		t.Fatalf("leaderboard = %v, want [carol dave]", members)
	}
}

func TestRefreshUser_ExcludesSelfAndFollowing(t *testing.T) {
	t.Parallel()

	s := store.NewMemory()
	seedGraph(t, s)
	c := cache.NewMemory()
	r := NewRefresher(s, c)
	ctx := context.Background()

	if err := r.RefreshUser(ctx, "sara"); err != nil {
		t.Fatalf("RefreshUser() error = %v", err)
	}
	members, err := c.ZRevRange(ctx, LeaderboardKey("sara"), 0, -1)
	if err != nil {
		t.Fatalf("ZRevRange() error = %v", err)
	}
	for _, m := range members {
		if m == "sara" || m == "alpha" || m == "beta" {
			t.Errorf("leaderboard contains excluded member %q", m)
		}
	}
}

func TestRefreshUser_ZeroScoreNeverWritten(t *testing.T) {
	t.Parallel()

	s := store.NewMemory()
	seedGraph(t, s)
	c := cache.NewMemory()
	r := NewRefresher(s, c)
	ctx := context.Background()

	if err := r.RefreshUser(ctx, "sara"); err != nil {
		t.Fatalf("RefreshUser() error = %v", err)
	}
	members, err := c.ZRevRange(ctx, LeaderboardKey("sara"), 0, -1)
	if err != nil {
		t.Fatalf("ZRevRange() error = %v", err)
	}
	for _, m := range members {
		if m == "emma" {
			t.Error("zero-score candidate emma written to leaderboard")
		}
	}
}

func TestRefreshUser_NoCandidatesDropsLeaderboard(t *testing.T) {
	t.Parallel()

	s := store.NewMemory()
	seedGraph(t, s)
	mustPutUser(t, s, models.User{ID: "loner"})

	c := cache.NewMemory()
	ctx := context.Background()
	// Simulate an older leaderboard that must not survive a rebuild that
	// finds no signal.
	if err := c.ZAdd(ctx, LeaderboardKey("loner"), "stale", 5); err != nil {
		t.Fatalf("ZAdd() error = %v", err)
	}

	r := NewRefresher(s, c)
	if err := r.RefreshUser(ctx, "loner"); err != nil {
		t.Fatalf("RefreshUser() error = %v", err)
	}
	n, err := c.ZCard(ctx, LeaderboardKey("loner"))
	if err != nil {
		t.Fatalf("ZCard() error = %v", err)
	}
	if n != 0 {
		t.Errorf("leaderboard cardinality = %d, want 0", n)
	}
}

func TestRefreshUser_ReplacesWholesale(t *testing.T) {
	t.Parallel()

	s := store.NewMemory()
	seedGraph(t, s)
	c := cache.NewMemory()
	ctx := context.Background()
	if err := c.ZAdd(ctx, LeaderboardKey("sara"), "stale", 999); err != nil {
		t.Fatalf("ZAdd() error = %v", err)
	}

	r := NewRefresher(s, c)
	if err := r.RefreshUser(ctx, "sara"); err != nil {
		t.Fatalf("RefreshUser() error = %v", err)
	}
	members, err := c.ZRevRange(ctx, LeaderboardKey("sara"), 0, -1)
	if err != nil {
		t.Fatalf("ZRevRange() error = %v", err)
	}
	for _, m := range members {
		if m == "stale" {
			t.Error("stale entry survived wholesale rebuild")
		}
	}
	if len(members) != 2 {
		t.Errorf("leaderboard has %d members, want 2", len(members))
	}
}

func TestRefreshUser_LeavesNoShadow(t *testing.T) {
	t.Parallel()

	s := store.NewMemory()
	seedGraph(t, s)
	c := cache.NewMemory()
	r := NewRefresher(s, c)
	ctx := context.Background()

	if err := r.RefreshUser(ctx, "sara"); err != nil {
		t.Fatalf("RefreshUser() error = %v", err)
	}
	n, err := c.ZCard(ctx, shadowKey("sara"))
	if err != nil {
		t.Fatalf("ZCard() error = %v", err)
	}
	if n != 0 {
		t.Errorf("shadow key still holds %d members after rebuild", n)
	}
}

func TestRefreshAll_CoversEveryUser(t *testing.T) {
	t.Parallel()

	s := store.NewMemory()
	seedGraph(t, s)
	c := cache.NewMemory()
	r := NewRefresher(s, c)
	ctx := context.Background()

	if err := r.RefreshAll(ctx); err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}

	// alpha follows carol and dave; carol follows nobody, so alpha's only
	// signal would come from mutuals of carol/dave's own following lists.
	// At minimum sara's leaderboard must exist.
	n, err := c.ZCard(ctx, LeaderboardKey("sara"))
	if err != nil {
		t.Fatalf("ZCard() error = %v", err)
	}
	if n != 2 {
		t.Errorf("sara's leaderboard cardinality = %d, want 2", n)
	}
}

func TestScoreCandidates_MutualIgnoresCandidatePosts(t *testing.T) {
	t.Parallel()

	s := store.NewMemory()
	seedGraph(t, s)
	c := cache.NewMemory()
	r := NewRefresher(s, c)
	ctx := context.Background()

	subject, err := s.FindUserByID(ctx, "sara")
	if err != nil {
		t.Fatalf("FindUserByID() error = %v", err)
	}
	before, err := r.scoreCandidates(ctx, subject)
	if err != nil {
		t.Fatalf("scoreCandidates() error = %v", err)
	}

	// Posting non-matching content must not move carol's mutual-only score.
	mustPutPost(t, s, models.Post{ID: "c-new", Creator: "carol", Tags: []string{"trains"}, CreatedAt: time.Now()})

	after, err := r.scoreCandidates(ctx, subject)
	if err != nil {
		t.Fatalf("scoreCandidates() error = %v", err)
	}
	carolScore := func(cands []candidate) float64 {
		for _, cand := range cands {
			if cand.ID == "carol" {
				return cand.Score
			}
		}
		return -1
	}
	if carolScore(before) != 20 || carolScore(after) != 20 {
		t.Errorf("carol score before/after = %v/%v, want 20/20", carolScore(before), carolScore(after))
	}
}
