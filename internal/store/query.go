// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package store

import (
	"sort"

	"github.com/tomtom215/kindred/internal/models"
)

// The helpers below implement the query semantics shared by both store
// backends: scans deliver the full document set and these filters narrow
// it down with deterministic ordering.

// sortPostsNewestFirst orders posts by creation time descending,
// breaking ties by ID so pagination is stable.
func sortPostsNewestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID < posts[j].ID
	})
}

// clipPosts applies a limit, treating limit <= 0 as unlimited.
func clipPosts(posts []models.Post, limit int) []models.Post {
	if limit > 0 && len(posts) > limit {
		return posts[:limit]
	}
	return posts
}

// selectPostsByCreators filters to posts authored by any of creatorIDs.
func selectPostsByCreators(posts []models.Post, creatorIDs []string, limit int) []models.Post {
	creators := idSet(creatorIDs)
	out := make([]models.Post, 0)
	for _, p := range posts {
		if _, ok := creators[p.Creator]; ok {
			out = append(out, p)
		}
	}
	sortPostsNewestFirst(out)
	return clipPosts(out, limit)
}

// selectPostsByTags filters to posts carrying any of the tags, excluding
// posts authored by excludeCreators.
func selectPostsByTags(posts []models.Post, tags, excludeCreators []string, limit int) []models.Post {
	wanted := idSet(tags)
	excluded := idSet(excludeCreators)

	out := make([]models.Post, 0)
	for _, p := range posts {
		if _, skip := excluded[p.Creator]; skip {
			continue
		}
		for _, tag := range p.Tags {
			if _, ok := wanted[tag]; ok {
				out = append(out, p)
				break
			}
		}
	}
	sortPostsNewestFirst(out)
	return clipPosts(out, limit)
}

// selectRecentPosts filters out the given post IDs.
func selectRecentPosts(posts []models.Post, excludeIDs []string, limit int) []models.Post {
	excluded := idSet(excludeIDs)
	out := make([]models.Post, 0)
	for _, p := range posts {
		if _, skip := excluded[p.ID]; skip {
			continue
		}
		out = append(out, p)
	}
	sortPostsNewestFirst(out)
	return clipPosts(out, limit)
}

// selectPostsEngagedBy filters to posts the user authored or liked.
func selectPostsEngagedBy(posts []models.Post, userID string) []models.Post {
	out := make([]models.Post, 0)
	for _, p := range posts {
		if p.Creator == userID {
			out = append(out, p)
			continue
		}
		for _, liker := range p.Likes {
			if liker == userID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// selectUsersExcluding orders users by ID and applies exclusion plus
// skip/limit paging.
func selectUsersExcluding(users []models.User, exclude []string, skip, limit int) []models.User {
	excluded := idSet(exclude)
	out := make([]models.User, 0)
	for _, u := range users {
		if _, skipUser := excluded[u.ID]; skipUser {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if skip >= len(out) {
		return []models.User{}
	}
	out = out[skip:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
