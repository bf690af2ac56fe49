// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package store

import (
	"context"
	"sync"

	"github.com/tomtom215/kindred/internal/models"
)

// Memory implements Store over plain maps. It exists for tests and for
// dev mode (store.backend: memory), where the seed data lives entirely
// in process.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]models.User
	posts    map[string]models.Post
	comments map[string]models.Comment
}

// NewMemory creates an empty in-memory content store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]models.User),
		posts:    make(map[string]models.Post),
		comments: make(map[string]models.Comment),
	}
}

// PutUser stores a user document.
func (s *Memory) PutUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

// PutPost stores a post document.
func (s *Memory) PutPost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = *post
	return nil
}

// PutComment stores a comment document.
func (s *Memory) PutComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[comment.ID] = *comment
	return nil
}

// Close is a no-op; the memory store has nothing to release.
func (s *Memory) Close() error {
	return nil
}

// snapshotPosts copies the post collection under the read lock.
func (s *Memory) snapshotPosts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	return posts
}

// snapshotUsers copies the user collection under the read lock.
func (s *Memory) snapshotUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users
}

// FindUserByID returns the user document, or ErrNotFound.
func (s *Memory) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// FindUsersByIDs returns users in the order the IDs were given; unknown
// IDs are skipped.
func (s *Memory) FindUsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// FindUsersExcluding returns users not in exclude, ordered by ID, paged.
func (s *Memory) FindUsersExcluding(_ context.Context, exclude []string, skip, limit int) ([]models.User, error) {
	return selectUsersExcluding(s.snapshotUsers(), exclude, skip, limit), nil
}

// ListUsers returns every user document.
func (s *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	return s.snapshotUsers(), nil
}

// FindPostsByCreators returns the most recent posts by the given creators.
func (s *Memory) FindPostsByCreators(_ context.Context, creatorIDs []string, limit int) ([]models.Post, error) {
	return selectPostsByCreators(s.snapshotPosts(), creatorIDs, limit), nil
}

// FindPostsByTags returns the most recent posts carrying any of the tags,
// excluding the given creators.
func (s *Memory) FindPostsByTags(_ context.Context, tags, excludeCreators []string, limit int) ([]models.Post, error) {
	return selectPostsByTags(s.snapshotPosts(), tags, excludeCreators, limit), nil
}

// FindRecentPosts returns the most recent posts not in excludeIDs.
func (s *Memory) FindRecentPosts(_ context.Context, excludeIDs []string, limit int) ([]models.Post, error) {
	return selectRecentPosts(s.snapshotPosts(), excludeIDs, limit), nil
}

// FindPostsEngagedBy returns posts the user authored or liked.
func (s *Memory) FindPostsEngagedBy(_ context.Context, userID string) ([]models.Post, error) {
	return selectPostsEngagedBy(s.snapshotPosts(), userID), nil
}

// FindTagsByAuthor returns the tags of every post the user authored.
func (s *Memory) FindTagsByAuthor(_ context.Context, userID string) ([]string, error) {
	tags := make([]string, 0)
	for _, p := range s.snapshotPosts() {
		if p.Creator == userID {
			tags = append(tags, p.Tags...)
		}
	}
	return tags, nil
}

// FindCommentedPostTags returns the tags of posts the user commented on.
func (s *Memory) FindCommentedPostTags(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := make([]string, 0)
	for _, c := range s.comments {
		if c.User != userID {
			continue
		}
		if p, ok := s.posts[c.Post]; ok {
			tags = append(tags, p.Tags...)
		}
	}
	return tags, nil
}
