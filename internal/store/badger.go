// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package store

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/kindred/internal/models"
)

// Key prefixes partition the Badger keyspace into document collections.
const (
	userPrefix    = "user:"
	postPrefix    = "post:"
	commentPrefix = "comment:"
)

// BadgerConfig holds settings for the embedded document store.
type BadgerConfig struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps all documents in RAM; used by tests and dev mode.
	InMemory bool `koanf:"in_memory"`
}

// Badger implements ContentStore over an embedded Badger database holding
// JSON documents.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the document store.
func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}
	return &Badger{db: db}, nil
}

// Close releases the underlying database.
func (s *Badger) Close() error {
	return s.db.Close()
}

// PutUser stores a user document.
func (s *Badger) PutUser(_ context.Context, user *models.User) error {
	return s.put(userPrefix+user.ID, user)
}

// PutPost stores a post document.
func (s *Badger) PutPost(_ context.Context, post *models.Post) error {
	return s.put(postPrefix+post.ID, post)
}

// PutComment stores a comment document.
func (s *Badger) PutComment(_ context.Context, comment *models.Comment) error {
	return s.put(commentPrefix+comment.ID, comment)
}

// put marshals a document and writes it under key.
func (s *Badger) put(key string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// get reads and unmarshals the document at key into out.
func (s *Badger) get(key string, out interface{}) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return nil
}

// scan visits every document under prefix, unmarshaling each into a fresh
// value produced by decode.
func (s *Badger) scan(prefix string, decode func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := it.Item().Value(decode); err != nil {
				return err
			}
		}
		return nil
	})
}

// allUsers loads every user document.
func (s *Badger) allUsers() ([]models.User, error) {
	users := make([]models.User, 0)
	err := s.scan(userPrefix, func(val []byte) error {
		var u models.User
		if err := json.Unmarshal(val, &u); err != nil {
			return err
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return users, nil
}

// allPosts loads every post document.
func (s *Badger) allPosts() ([]models.Post, error) {
	posts := make([]models.Post, 0)
	err := s.scan(postPrefix, func(val []byte) error {
		var p models.Post
		if err := json.Unmarshal(val, &p); err != nil {
			return err
		}
		posts = append(posts, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	return posts, nil
}

// FindUserByID returns the user document, or ErrNotFound.
func (s *Badger) FindUserByID(_ context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.get(userPrefix+id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUsersByIDs returns users in the order the IDs were given; unknown
// IDs are skipped.
func (s *Badger) FindUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.FindUserByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// FindUsersExcluding returns users not in exclude, ordered by ID, paged.
func (s *Badger) FindUsersExcluding(_ context.Context, exclude []string, skip, limit int) ([]models.User, error) {
	users, err := s.allUsers()
	if err != nil {
		return nil, err
	}
	return selectUsersExcluding(users, exclude, skip, limit), nil
}

// ListUsers returns every user document.
func (s *Badger) ListUsers(_ context.Context) ([]models.User, error) {
	return s.allUsers()
}

// FindPostsByCreators returns the most recent posts by the given creators.
func (s *Badger) FindPostsByCreators(_ context.Context, creatorIDs []string, limit int) ([]models.Post, error) {
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	return selectPostsByCreators(posts, creatorIDs, limit), nil
}

// FindPostsByTags returns the most recent posts carrying any of the tags,
// excluding the given creators.
func (s *Badger) FindPostsByTags(_ context.Context, tags, excludeCreators []string, limit int) ([]models.Post, error) {
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	return selectPostsByTags(posts, tags, excludeCreators, limit), nil
}

// FindRecentPosts returns the most recent posts not in excludeIDs.
func (s *Badger) FindRecentPosts(_ context.Context, excludeIDs []string, limit int) ([]models.Post, error) {
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	return selectRecentPosts(posts, excludeIDs, limit), nil
}

// FindPostsEngagedBy returns posts the user authored or liked.
func (s *Badger) FindPostsEngagedBy(_ context.Context, userID string) ([]models.Post, error) {
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	return selectPostsEngagedBy(posts, userID), nil
}

// FindTagsByAuthor returns the tags of every post the user authored.
func (s *Badger) FindTagsByAuthor(_ context.Context, userID string) ([]string, error) {
	tags := make([]string, 0)
	err := s.scan(postPrefix, func(val []byte) error {
		var p models.Post
		if err := json.Unmarshal(val, &p); err != nil {
			return err
		}
		if p.Creator == userID {
			tags = append(tags, p.Tags...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan author tags: %w", err)
	}
	return tags, nil
}

// FindCommentedPostTags returns the tags of every post the user commented
// on. Each comment contributes its post's full tag list, so a user who
// commented twice on the same post counts those tags twice.
func (s *Badger) FindCommentedPostTags(ctx context.Context, userID string) ([]string, error) {
	postIDs := make([]string, 0)
	err := s.scan(commentPrefix, func(val []byte) error {
		var c models.Comment
		if err := json.Unmarshal(val, &c); err != nil {
			return err
		}
		if c.User == userID {
			postIDs = append(postIDs, c.Post)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan comments: %w", err)
	}

	tags := make([]string, 0)
	for _, postID := range postIDs {
		var p models.Post
		err := s.get(postPrefix+postID, &p)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, p.Tags...)
	}
	return tags, nil
}
