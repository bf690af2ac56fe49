// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package store

import (
	"context"
	"errors"

	"github.com/tomtom215/kindred/internal/models"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("store: document not found")

// ContentStore is the read interface the ranking core depends on.
//
// All list results are deterministically ordered: post queries return
// newest-first by creation time, user scans return ascending by ID.
// A limit of zero or less means "no limit".
type ContentStore interface {
	// FindUserByID returns the user document, or ErrNotFound.
	FindUserByID(ctx context.Context, id string) (*models.User, error)

	// FindUsersByIDs returns the users for the given IDs, in the order
	// the IDs were given. Unknown IDs are skipped, not an error.
	FindUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)

	// FindUsersExcluding returns users whose ID is not in exclude,
	// ordered by ID, honoring skip and limit.
	FindUsersExcluding(ctx context.Context, exclude []string, skip, limit int) ([]models.User, error)

	// ListUsers returns every user document.
	ListUsers(ctx context.Context) ([]models.User, error)

	// FindPostsByCreators returns the most recent posts authored by any
	// of the given creators.
	FindPostsByCreators(ctx context.Context, creatorIDs []string, limit int) ([]models.Post, error)

	// FindPostsByTags returns the most recent posts carrying at least one
	// of the given tags, excluding posts by the given creators.
	FindPostsByTags(ctx context.Context, tags, excludeCreators []string, limit int) ([]models.Post, error)

	// FindRecentPosts returns the most recent posts whose ID is not in
	// excludeIDs.
	FindRecentPosts(ctx context.Context, excludeIDs []string, limit int) ([]models.Post, error)

	// FindPostsEngagedBy returns posts the user authored or liked.
	FindPostsEngagedBy(ctx context.Context, userID string) ([]models.Post, error)

	// FindTagsByAuthor returns the tags of every post the user authored,
	// with duplicates preserved.
	FindTagsByAuthor(ctx context.Context, userID string) ([]string, error)

	// FindCommentedPostTags returns the tags of every post the user
	// commented on, with duplicates preserved.
	FindCommentedPostTags(ctx context.Context, userID string) ([]string, error)
}

// Store is the full backend contract: the ranking reads plus document
// writes and lifecycle. Both backends satisfy it.
type Store interface {
	ContentStore

	PutUser(ctx context.Context, user *models.User) error
	PutPost(ctx context.Context, post *models.Post) error
	PutComment(ctx context.Context, comment *models.Comment) error

	Close() error
}

// idSet builds a membership set from a slice of IDs.
func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
