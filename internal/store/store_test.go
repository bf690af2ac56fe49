// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package store

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/tomtom215/kindred/internal/models"
)

// writableStore is the superset both backends implement; conformance tests
// run against each so query semantics never drift between them.
type writableStore interface {
	ContentStore
	PutUser(ctx context.Context, user *models.User) error
	PutPost(ctx context.Context, post *models.Post) error
	PutComment(ctx context.Context, comment *models.Comment) error
}

// backends returns a fresh instance of every store implementation.
func backends(t *testing.T) map[string]writableStore {
	t.Helper()

	b, err := OpenBadger(BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	return map[string]writableStore{
		"badger": b,
		"memory": NewMemory(),
	}
}

// seedSocialGraph installs a small fixture:
//
//	users: sara follows adam, bea; adam posts tagged art; bea posts tagged
//	food; dana posts tagged art+food; sara comments on dana's post.
func seedSocialGraph(t *testing.T, s writableStore) {
	t.Helper()

	ctx := context.Background()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	users := []models.User{
		{ID: "sara", Username: "sara", Following: []string{"adam", "bea"}, LikedPosts: []string{"p-adam-1"}},
		{ID: "adam", Username: "adam", Followers: []string{"sara"}},
		{ID: "bea", Username: "bea", Followers: []string{"sara"}},
		{ID: "dana", Username: "dana"},
	}
	for i := range users {
		if err := s.PutUser(ctx, &users[i]); err != nil {
			t.Fatalf("PutUser(%s) error = %v", users[i].ID, err)
		}
	}

	posts := []models.Post{
		{ID: "p-adam-1", Creator: "adam", Tags: []string{"art"}, Likes: []string{"sara"}, CreatedAt: base},
		{ID: "p-adam-2", Creator: "adam", Tags: []string{"art", "paint"}, CreatedAt: base.Add(time.Hour)},
		{ID: "p-bea-1", Creator: "bea", Tags: []string{"food"}, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "p-dana-1", Creator: "dana", Tags: []string{"art", "food"}, CreatedAt: base.Add(3 * time.Hour)},
	}
	for i := range posts {
		if err := s.PutPost(ctx, &posts[i]); err != nil {
			t.Fatalf("PutPost(%s) error = %v", posts[i].ID, err)
		}
	}

	comment := models.Comment{ID: "c-1", User: "sara", Post: "p-dana-1", CreatedAt: base.Add(4 * time.Hour)}
	if err := s.PutComment(ctx, &comment); err != nil {
		t.Fatalf("PutComment() error = %v", err)
	}
}

func postIDs(posts []models.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func userIDs(users []models.User) []string {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestContentStore_Conformance(t *testing.T) {
	t.Parallel()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seedSocialGraph(t, s)
			ctx := context.Background()

			t.Run("find user by id", func(t *testing.T) {
				u, err := s.FindUserByID(ctx, "sara")
				if err != nil {
					t.Fatalf("FindUserByID() error = %v", err)
				}
				if !u.Follows("adam") || !u.Follows("bea") {
					t.Errorf("sara.Following = %v, want adam and bea", u.Following)
				}
			})

			t.Run("missing user", func(t *testing.T) {
				if _, err := s.FindUserByID(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
					t.Errorf("FindUserByID(nobody) err = %v, want ErrNotFound", err)
				}
			})

			t.Run("users by ids preserves order and skips unknown", func(t *testing.T) {
				users, err := s.FindUsersByIDs(ctx, []string{"dana", "ghost", "adam"})
				if err != nil {
					t.Fatalf("FindUsersByIDs() error = %v", err)
				}
				if got, want := userIDs(users), []string{"dana", "adam"}; !equalStrings(got, want) {
					t.Errorf("FindUsersByIDs() = %v, want %v", got, want)
				}
			})

			t.Run("users excluding with paging", func(t *testing.T) {
				users, err := s.FindUsersExcluding(ctx, []string{"sara"}, 1, 2)
				if err != nil {
					t.Fatalf("FindUsersExcluding() error = %v", err)
				}
				// Remaining after exclusion, by ID: adam, bea, dana; skip 1.
				if got, want := userIDs(users), []string{"bea", "dana"}; !equalStrings(got, want) {
					t.Errorf("FindUsersExcluding() = %v, want %v", got, want)
				}
			})

			t.Run("posts by creators newest first", func(t *testing.T) {
				posts, err := s.FindPostsByCreators(ctx, []string{"adam", "bea"}, 50)
				if err != nil {
					t.Fatalf("FindPostsByCreators() error = %v", err)
				}
				want := []string{"p-bea-1", "p-adam-2", "p-adam-1"}
				if got := postIDs(posts); !equalStrings(got, want) {
					t.Errorf("FindPostsByCreators() = %v, want %v", got, want)
				}
			})

			t.Run("posts by tags excludes creators", func(t *testing.T) {
				posts, err := s.FindPostsByTags(ctx, []string{"art"}, []string{"adam", "sara"}, 50)
				if err != nil {
					t.Fatalf("FindPostsByTags() error = %v", err)
				}
				if got, want := postIDs(posts), []string{"p-dana-1"}; !equalStrings(got, want) {
					t.Errorf("FindPostsByTags() = %v, want %v", got, want)
				}
			})

			t.Run("recent posts excludes ids", func(t *testing.T) {
				posts, err := s.FindRecentPosts(ctx, []string{"p-dana-1"}, 2)
				if err != nil {
					t.Fatalf("FindRecentPosts() error = %v", err)
				}
				if got, want := postIDs(posts), []string{"p-bea-1", "p-adam-2"}; !equalStrings(got, want) {
					t.Errorf("FindRecentPosts() = %v, want %v", got, want)
				}
			})

			t.Run("engaged posts cover authored and liked", func(t *testing.T) {
				posts, err := s.FindPostsEngagedBy(ctx, "sara")
				if err != nil {
					t.Fatalf("FindPostsEngagedBy() error = %v", err)
				}
				got := postIDs(posts)
				sort.Strings(got)
				if want := []string{"p-adam-1"}; !equalStrings(got, want) {
					t.Errorf("FindPostsEngagedBy(sara) = %v, want %v", got, want)
				}
			})

			t.Run("author tags keep duplicates", func(t *testing.T) {
				tags, err := s.FindTagsByAuthor(ctx, "adam")
				if err != nil {
					t.Fatalf("FindTagsByAuthor() error = %v", err)
				}
				sort.Strings(tags)
				if want := []string{"art", "art", "paint"}; !equalStrings(tags, want) {
					t.Errorf("FindTagsByAuthor(adam) = %v, want %v", tags, want)
				}
			})

			t.Run("commented post tags", func(t *testing.T) {
				tags, err := s.FindCommentedPostTags(ctx, "sara")
				if err != nil {
					t.Fatalf("FindCommentedPostTags() error = %v", err)
				}
				sort.Strings(tags)
				if want := []string{"art", "food"}; !equalStrings(tags, want) {
					t.Errorf("FindCommentedPostTags(sara) = %v, want %v", tags, want)
				}
			})
		})
	}
}
