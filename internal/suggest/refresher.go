// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package suggest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/kindred/internal/cache"
	"github.com/tomtom215/kindred/internal/logging"
	"github.com/tomtom215/kindred/internal/metrics"
	"github.com/tomtom215/kindred/internal/models"
	"github.com/tomtom215/kindred/internal/rank"
	"github.com/tomtom215/kindred/internal/store"
)

// DefaultLeaderboardTTL bounds leaderboard staleness between scheduled runs.
const DefaultLeaderboardTTL = 300 * time.Second

// LeaderboardKey returns the sorted-set key holding a subject's suggestion
// leaderboard.
func LeaderboardKey(userID string) string {
	return "suggestions:zset:" + userID
}

// shadowKey is where a rebuild stages its writes before renaming over the
// live leaderboard.
func shadowKey(userID string) string {
	return LeaderboardKey(userID) + ":next"
}

// candidate is one scored suggestion, ordered highest first.
type candidate struct {
	ID    string
	Score float64
}

// Refresher rebuilds suggestion leaderboards. Safe for concurrent use; each
// rebuild touches only its subject's keys.
type Refresher struct {
	store   store.ContentStore
	cache   cache.Store
	weights rank.Weights
	ttl     time.Duration
}

// RefresherOption customizes a Refresher.
type RefresherOption func(*Refresher)

// WithLeaderboardTTL overrides the leaderboard TTL.
func WithLeaderboardTTL(ttl time.Duration) RefresherOption {
	return func(r *Refresher) { r.ttl = ttl }
}

// WithWeights overrides the affinity scoring weights.
func WithWeights(w rank.Weights) RefresherOption {
	return func(r *Refresher) { r.weights = w }
}

// NewRefresher creates a Refresher over the given content store and cache.
func NewRefresher(cs store.ContentStore, cacheStore cache.Store, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		store:   cs,
		cache:   cacheStore,
		weights: rank.DefaultWeights(),
		ttl:     DefaultLeaderboardTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RefreshAll rebuilds the leaderboard of every user. Per-subject failures are
// logged and counted but do not abort the run; the returned error reports how
// many subjects failed.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	started := time.Now()

	users, err := r.store.ListUsers(ctx)
	if err != nil {
		metrics.RefreshErrors.WithLabelValues("store").Inc()
		return fmt.Errorf("list users for refresh: %w", err)
	}

	failed := 0
	for i := range users {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("refresh run canceled after %d/%d users: %w", i, len(users), err)
		}
		if err := r.RefreshUser(ctx, users[i].ID); err != nil {
			failed++
			logging.Ctx(ctx).Error().Err(err).Str("user_id", users[i].ID).Msg("Suggestion rebuild failed")
		}
	}

	var runErr error
	if failed > 0 {
		runErr = fmt.Errorf("suggestion refresh: %d of %d subjects failed", failed, len(users))
	}
	metrics.RecordRefreshRun(time.Since(started), len(users), runErr)
	logging.Ctx(ctx).Info().
		Int("users", len(users)).
		Int("failed", failed).
		Dur("elapsed", time.Since(started)).
		Msg("Suggestion refresh run complete")
	return runErr
}

// RefreshUser rebuilds one subject's leaderboard. Writes go to a shadow key
// that is renamed over the live key, so concurrent readers see either the old
// complete leaderboard or the new one, never a partial state. A subject with
// no positive-score candidates ends with no leaderboard at all.
func (r *Refresher) RefreshUser(ctx context.Context, userID string) error {
	subject, err := r.store.FindUserByID(ctx, userID)
	if err != nil {
		metrics.RefreshErrors.WithLabelValues("store").Inc()
		return fmt.Errorf("load subject %s: %w", userID, err)
	}

	candidates, err := r.scoreCandidates(ctx, subject)
	if err != nil {
		metrics.RefreshErrors.WithLabelValues("store").Inc()
		return err
	}

	if err := r.publish(ctx, userID, candidates); err != nil {
		metrics.RefreshErrors.WithLabelValues("cache").Inc()
		return err
	}
	metrics.RecordLeaderboardRebuild(len(candidates))
	return nil
}

// scoreCandidates computes the subject's positive-score candidates, ordered
// highest first. Pure with respect to the cache; only the content store is
// read.
func (r *Refresher) scoreCandidates(ctx context.Context, subject *models.User) ([]candidate, error) {
	excluded := rank.Excluded(subject.ID, subject.Following)

	followed, err := r.store.FindUsersByIDs(ctx, subject.Following)
	if err != nil {
		return nil, fmt.Errorf("load followed users of %s: %w", subject.ID, err)
	}
	followingOf := make(map[string][]string, len(followed))
	for i := range followed {
		followingOf[followed[i].ID] = followed[i].Following
	}
	mutual := rank.MutualCounts(subject.Following, followingOf, excluded)

	engaged, err := r.store.FindPostsEngagedBy(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("load engaged posts of %s: %w", subject.ID, err)
	}
	tagLists := make([][]string, len(engaged))
	for i := range engaged {
		tagLists[i] = engaged[i].Tags
	}
	affinity := rank.BuildTagAffinity(tagLists...)

	all, err := r.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate candidates for %s: %w", subject.ID, err)
	}

	candidates := make([]candidate, 0, len(all))
	for i := range all {
		id := all[i].ID
		if _, skip := excluded[id]; skip {
			continue
		}
		tagScore := 0
		if len(affinity) > 0 {
			tags, err := r.store.FindTagsByAuthor(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("load tags of candidate %s: %w", id, err)
			}
			tagScore = affinity.Score(tags)
		}
		score := r.weights.Final(mutual[id], tagScore)
		if score > 0 {
			candidates = append(candidates, candidate{ID: id, Score: score})
		}
	}

	// Highest score first; ties break on ID descending to match the sorted
	// set's reverse-range order, so the cache-down path pages identically.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ID > candidates[j].ID
	})
	return candidates, nil
}

// publish replaces the subject's live leaderboard with the given candidates.
func (r *Refresher) publish(ctx context.Context, userID string, candidates []candidate) error {
	live := LeaderboardKey(userID)
	shadow := shadowKey(userID)

	// A crashed earlier rebuild may have left a stale shadow behind.
	if err := r.cache.Del(ctx, shadow); err != nil {
		return fmt.Errorf("clear shadow leaderboard for %s: %w", userID, err)
	}

	if len(candidates) == 0 {
		if err := r.cache.Del(ctx, live); err != nil {
			return fmt.Errorf("drop empty leaderboard for %s: %w", userID, err)
		}
		return nil
	}

	for _, c := range candidates {
		if err := r.cache.ZAdd(ctx, shadow, c.ID, c.Score); err != nil {
			return fmt.Errorf("stage leaderboard entry %s for %s: %w", c.ID, userID, err)
		}
	}
	if err := r.cache.Rename(ctx, shadow, live); err != nil && !errors.Is(err, cache.ErrMiss) {
		return fmt.Errorf("swap leaderboard for %s: %w", userID, err)
	}
	if err := r.cache.Expire(ctx, live, r.ttl); err != nil {
		return fmt.Errorf("expire leaderboard for %s: %w", userID, err)
	}
	return nil
}
