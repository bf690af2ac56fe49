// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/kindred/internal/logging"
	"github.com/tomtom215/kindred/internal/metrics"
	"github.com/tomtom215/kindred/internal/models"
	"github.com/tomtom215/kindred/internal/rank"
	"github.com/tomtom215/kindred/internal/store"
)

const (
	// DefaultSourceLimit caps how many posts each candidate source contributes
	// before merging.
	DefaultSourceLimit = 50

	// DefaultColdStartFloor is the minimum feed size. Feeds below it are
	// padded with globally recent posts.
	DefaultColdStartFloor = 30
)

// Assembler builds the full ordered candidate list for a subject. It holds no
// per-request state; one instance serves all subjects concurrently.
type Assembler struct {
	store       store.ContentStore
	sourceLimit int
	floor       int
	now         func() time.Time
}

// AssemblerOption customizes an Assembler.
type AssemblerOption func(*Assembler)

// WithSourceLimit overrides the per-source fetch cap.
func WithSourceLimit(limit int) AssemblerOption {
	return func(a *Assembler) { a.sourceLimit = limit }
}

// WithColdStartFloor overrides the minimum feed size.
func WithColdStartFloor(floor int) AssemblerOption {
	return func(a *Assembler) { a.floor = floor }
}

// WithClock overrides the time source used for relevance scoring.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) { a.now = now }
}

// NewAssembler creates an Assembler reading from cs.
func NewAssembler(cs store.ContentStore, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		store:       cs,
		sourceLimit: DefaultSourceLimit,
		floor:       DefaultColdStartFloor,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble returns the subject's full feed, ordered by relevance descending.
// Callers paginate the result; see Paginate. An unknown subject fails with
// store.ErrNotFound. An empty post corpus yields an empty feed, not an error.
func (a *Assembler) Assemble(ctx context.Context, userID string) ([]models.ScoredPost, error) {
	started := a.now()

	user, err := a.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load subject %s: %w", userID, err)
	}

	likedTags, err := a.likedTags(ctx, user)
	if err != nil {
		return nil, err
	}

	merged := make([]models.Post, 0, 2*a.sourceLimit)
	seen := make(map[string]struct{})
	appendNew := func(posts []models.Post) {
		for _, p := range posts {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}

	if len(user.Following) > 0 {
		fromFollowing, err := a.store.FindPostsByCreators(ctx, user.Following, a.sourceLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch following posts for %s: %w", userID, err)
		}
		appendNew(fromFollowing)
	}

	if len(likedTags) > 0 {
		excludeCreators := append([]string{user.ID}, user.Following...)
		related, err := a.store.FindPostsByTags(ctx, likedTags.Slice(), excludeCreators, a.sourceLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch related posts for %s: %w", userID, err)
		}
		appendNew(related)
	}

	coldStartFilled := false
	if missing := a.floor - len(merged); missing > 0 {
		excludeIDs := make([]string, 0, len(seen))
		for id := range seen {
			excludeIDs = append(excludeIDs, id)
		}
		fallback, err := a.store.FindRecentPosts(ctx, excludeIDs, missing)
		if err != nil {
			return nil, fmt.Errorf("fetch fallback posts for %s: %w", userID, err)
		}
		coldStartFilled = len(fallback) > 0
		appendNew(fallback)
	}

	scored := rank.ScorePosts(merged, a.now())
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	metrics.RecordFeedAssembly(a.now().Sub(started), len(scored), coldStartFilled)
	logging.Ctx(ctx).Debug().
		Str("user_id", userID).
		Int("posts", len(scored)).
		Bool("cold_start_fill", coldStartFilled).
		Msg("Feed assembled")

	return scored, nil
}

// likedTags builds the set of tags the subject engaged with: tags on posts
// they liked plus tags on posts they commented on. Authored posts are
// deliberately excluded here; authorship feeds the suggestion affinity map,
// not feed selection.
func (a *Assembler) likedTags(ctx context.Context, user *models.User) (rank.TagSet, error) {
	engaged, err := a.store.FindPostsEngagedBy(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch engaged posts for %s: %w", user.ID, err)
	}
	liked := make(map[string]struct{}, len(user.LikedPosts))
	for _, id := range user.LikedPosts {
		liked[id] = struct{}{}
	}
	tagLists := make([][]string, 0, len(engaged)+1)
	for _, p := range engaged {
		if _, ok := liked[p.ID]; ok {
			tagLists = append(tagLists, p.Tags)
		}
	}

	commented, err := a.store.FindCommentedPostTags(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch commented tags for %s: %w", user.ID, err)
	}
	tagLists = append(tagLists, commented)

	return rank.BuildTagSet(tagLists...), nil
}

// Paginate slices a one-based page out of list. Pages beyond the end return
// an empty slice. Invalid page or limit values also return an empty slice;
// input validation belongs to the transport layer.
func Paginate[T any](list []T, page, limit int) []T {
	if page < 1 || limit < 1 {
		return []T{}
	}
	start := (page - 1) * limit
	if start >= len(list) {
		return []T{}
	}
	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}
