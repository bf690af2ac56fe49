// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package suggest

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/kindred/internal/cache"
	"github.com/tomtom215/kindred/internal/logging"
	"github.com/tomtom215/kindred/internal/metrics"
	"github.com/tomtom215/kindred/internal/models"
	"github.com/tomtom215/kindred/internal/store"
)

const (
	// DefaultPageTTL bounds staleness of cached suggestion pages.
	DefaultPageTTL = 300 * time.Second

	// DefaultOnDemandTimeout caps the lazy single-subject rebuild on the
	// request path. The rebuild scans every user, so without a bound one
	// cold request could stall for the whole population scan.
	DefaultOnDemandTimeout = 30 * time.Second
)

const pageCacheType = "suggestion_page"

// PageKey returns the cache key for one resolved suggestion page.
func PageKey(userID string, page int) string {
	return fmt.Sprintf("suggestions:%s:page:%d", userID, page)
}

// Service serves suggestion pages from the leaderboard, with a page cache in
// front and direct in-process scoring as a last resort when the cache store
// is down.
type Service struct {
	store           store.ContentStore
	cache           cache.Store
	refresher       *Refresher
	pageTTL         time.Duration
	onDemandTimeout time.Duration
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithPageTTL overrides the page cache TTL.
func WithPageTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) { s.pageTTL = ttl }
}

// WithOnDemandTimeout overrides the lazy rebuild timeout.
func WithOnDemandTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) { s.onDemandTimeout = timeout }
}

// NewService creates a suggestion Service.
func NewService(cs store.ContentStore, cacheStore cache.Store, refresher *Refresher, opts ...ServiceOption) *Service {
	s := &Service{
		store:           cs,
		cache:           cacheStore,
		refresher:       refresher,
		pageTTL:         DefaultPageTTL,
		onDemandTimeout: DefaultOnDemandTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSuggestedUsers returns one page of suggested users for the subject,
// highest affinity first. The boolean reports whether the page came from the
// page cache. An expired leaderboard triggers a synchronous single-subject
// rebuild; an unknown subject fails with store.ErrNotFound.
func (s *Service) GetSuggestedUsers(ctx context.Context, userID string, page, limit int) ([]models.User, bool, error) {
	if page < 1 || limit < 1 {
		return []models.User{}, false, nil
	}

	pageKey := PageKey(userID, page)
	cacheDown := false

	raw, err := s.cache.Get(ctx, pageKey)
	switch {
	case err == nil:
		var users []models.User
		if uerr := json.Unmarshal([]byte(raw), &users); uerr == nil {
			metrics.RecordCacheHit(pageCacheType)
			return users, true, nil
		}
		metrics.RecordCacheError(pageCacheType)
		logging.Ctx(ctx).Warn().Str("key", pageKey).Msg("Suggestion page cache payload corrupt, recomputing")
	case errors.Is(err, cache.ErrMiss):
		metrics.RecordCacheMiss(pageCacheType)
	default:
		metrics.RecordCacheError(pageCacheType)
		logging.Ctx(ctx).Warn().Err(err).Str("key", pageKey).Msg("Suggestion cache unavailable, scoring directly")
		cacheDown = true
	}

	if cacheDown {
		users, derr := s.directPage(ctx, userID, page, limit)
		return users, false, derr
	}

	users, err := s.leaderboardPage(ctx, userID, page, limit)
	if err != nil {
		return nil, false, err
	}

	if payload, merr := json.Marshal(users); merr == nil {
		if cerr := s.cache.SetEx(ctx, pageKey, string(payload), s.pageTTL); cerr != nil {
			metrics.RecordCacheError(pageCacheType)
			logging.Ctx(ctx).Warn().Err(cerr).Str("key", pageKey).Msg("Suggestion page cache write failed")
		}
	}
	return users, false, nil
}

// leaderboardPage reads one page from the sorted set, lazily rebuilding it
// when expired, and resolves member ids to user records in rank order.
func (s *Service) leaderboardPage(ctx context.Context, userID string, page, limit int) ([]models.User, error) {
	lb := LeaderboardKey(userID)

	n, err := s.cache.ZCard(ctx, lb)
	if err != nil {
		metrics.RecordCacheError(pageCacheType)
		return s.directPage(ctx, userID, page, limit)
	}
	if n == 0 {
		metrics.OnDemandRefreshes.Inc()
		rctx, cancel := context.WithTimeout(ctx, s.onDemandTimeout)
		err := s.refresher.RefreshUser(rctx, userID)
		cancel()
		if err != nil {
			return nil, err
		}
	}

	skip := int64(page-1) * int64(limit)
	ids, err := s.cache.ZRevRange(ctx, lb, skip, skip+int64(limit)-1)
	if err != nil {
		metrics.RecordCacheError(pageCacheType)
		return s.directPage(ctx, userID, page, limit)
	}
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	users, err := s.store.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve suggested users for %s: %w", userID, err)
	}
	return users, nil
}

// directPage scores candidates in process and pages the result, bypassing
// the cache entirely. Used when the cache store is unavailable; the cache is
// an optimization, not a dependency.
func (s *Service) directPage(ctx context.Context, userID string, page, limit int) ([]models.User, error) {
	subject, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load subject %s: %w", userID, err)
	}

	candidates, err := s.refresher.scoreCandidates(ctx, subject)
	if err != nil {
		return nil, err
	}

	start := (page - 1) * limit
	if start >= len(candidates) {
		return []models.User{}, nil
	}
	end := start + limit
	if end > len(candidates) {
		end = len(candidates)
	}

	ids := make([]string, 0, end-start)
	for _, c := range candidates[start:end] {
		ids = append(ids, c.ID)
	}
	users, err := s.store.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve suggested users for %s: %w", userID, err)
	}
	return users, nil
}

// GetPaginatedUsers returns a page for user browsing: leaderboard members
// first, highest affinity first, then the remaining population in stable
// store order. When the sorted set covers part of a page the remainder is
// filled from the store, offset by how much of the earlier pages the sorted
// set already covered.
//
// The mix is approximate across page boundaries: if the leaderboard grows or
// shrinks between requests a user can repeat or be skipped. Accepted; strict
// sessions would need a snapshotted id list.
func (s *Service) GetPaginatedUsers(ctx context.Context, userID string, page, limit int) ([]models.User, error) {
	if page < 1 || limit < 1 {
		return []models.User{}, nil
	}

	lb := LeaderboardKey(userID)
	skip := (page - 1) * limit

	var (
		total int64
		ids   []string
	)
	total, err := s.cache.ZCard(ctx, lb)
	if err != nil {
		metrics.RecordCacheError(pageCacheType)
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Leaderboard unavailable, browsing store only")
		total = 0
	} else if total > 0 {
		ids, err = s.cache.ZRevRange(ctx, lb, int64(skip), int64(skip+limit-1))
		if err != nil {
			metrics.RecordCacheError(pageCacheType)
			total = 0
			ids = nil
		}
	}

	users := []models.User{}
	if len(ids) > 0 {
		users, err = s.store.FindUsersByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("resolve ranked users for %s: %w", userID, err)
		}
	}

	if len(users) < limit {
		fallbackSkip := skip - int(total)
		if fallbackSkip < 0 {
			fallbackSkip = 0
		}
		exclude := make([]string, 0, len(ids)+1)
		exclude = append(exclude, userID)
		exclude = append(exclude, ids...)

		rest, err := s.store.FindUsersExcluding(ctx, exclude, fallbackSkip, limit-len(users))
		if err != nil {
			return nil, fmt.Errorf("browse users for %s: %w", userID, err)
		}
		users = append(users, rest...)
	}
	return users, nil
}
