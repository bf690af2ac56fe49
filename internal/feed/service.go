// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package feed

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
)

// DefaultCacheTTL bounds how stale a served feed can be. Within one TTL
// window every page request for a user sees the same underlying ordering.
const DefaultCacheTTL = 300 * time.Second

const cacheType = "feed"

// Service serves paginated feeds, caching the full assembled list per user.
// Cache failures are absorbed: the compute path always remains available.
type Service struct {
	assembler *Assembler
	cache     cache.Store
	ttl       time.Duration
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithCacheTTL overrides the feed cache TTL.
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) { s.ttl = ttl }
}

// NewService creates a feed Service backed by the given assembler and cache.
func NewService(assembler *Assembler, cacheStore cache.Store, opts ...ServiceOption) *Service {
	s := &Service{
		assembler: assembler,
		cache:     cacheStore,
		ttl:       DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FeedKey returns the cache key holding a user's full assembled feed.
func FeedKey(userID string) string {
	return "feed:" + userID
}

// GetPersonalizedFeed returns one page of the subject's feed. The boolean
// reports whether the page was served from cache. Page numbering is one-based;
// pages beyond the end return an empty list.
func (s *Service) GetPersonalizedFeed(ctx context.Context, userID string, page, limit int) ([]models.ScoredPost, bool, error) {
	key := FeedKey(userID)

	if cached, ok := s.readCached(ctx, key); ok {
		metrics.RecordCacheHit(cacheType)
		return Paginate(cached, page, limit), true, nil
	}
	metrics.RecordCacheMiss(cacheType)

	full, err := s.assembler.Assemble(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	s.writeCached(ctx, key, full)

	return Paginate(full, page, limit), false, nil
}

// InvalidateFeed drops a user's cached feed so the next request reassembles
// it. Intended for write paths (new post, follow change) that want fresher
// feeds than TTL expiry provides.
func (s *Service) InvalidateFeed(ctx context.Context, userID string) error {
	if err := s.cache.Del(ctx, FeedKey(userID)); err != nil {
		return fmt.Errorf("invalidate feed for %s: %w", userID, err)
	}
	return nil
}

// readCached returns the cached full feed, or ok=false on miss, cache outage,
// or a corrupt payload. Outages are logged and counted but never surfaced;
// the caller falls back to assembly.
func (s *Service) readCached(ctx context.Context, key string) ([]models.ScoredPost, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			metrics.RecordCacheError(cacheType)
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Feed cache read failed, assembling directly")
		}
		return nil, false
	}

	var cached []models.ScoredPost
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		metrics.RecordCacheError(cacheType)
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Feed cache payload corrupt, assembling directly")
		return nil, false
	}
	return cached, true
}

// writeCached stores the full feed best-effort. A failed write only costs the
// next request a recompute.
func (s *Service) writeCached(ctx context.Context, key string, full []models.ScoredPost) {
	payload, err := json.Marshal(full)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("key", key).Msg("Feed cache encode failed")
		return
	}
	if err := s.cache.SetEx(ctx, key, string(payload), s.ttl); err != nil {
		metrics.RecordCacheError(cacheType)
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Feed cache write failed")
	}
}
