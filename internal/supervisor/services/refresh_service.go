// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package services

import (
	"context"
	"time"

	"github.com/tomtom215/kindred/internal/logging"
)

// SuggestionRefresher matches the suggest.Refresher surface this
// service drives.
type SuggestionRefresher interface {
	RefreshAll(ctx context.Context) error
}

// RefreshService periodically rebuilds every user's suggestion
// leaderboard. A failed cycle is logged and the loop keeps running:
// individual cycle failures are routine (the cache may be briefly
// unreachable) and do not warrant a supervisor restart.
type RefreshService struct {
	refresher SuggestionRefresher
	interval  time.Duration
	runAtBoot bool
	name      string
}

// RefreshOption customizes a RefreshService.
type RefreshOption func(*RefreshService)

// WithInitialRun makes the service refresh once immediately on start
// instead of waiting a full interval for the first cycle.
func WithInitialRun() RefreshOption {
	return func(s *RefreshService) { s.runAtBoot = true }
}

// NewRefreshService creates a refresh loop running on the given interval.
func NewRefreshService(refresher SuggestionRefresher, interval time.Duration, opts ...RefreshOption) *RefreshService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	s := &RefreshService{
		refresher: refresher,
		interval:  interval,
		name:      "suggestion-refresh",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve implements suture.Service. It ticks on the configured interval
// and runs a full refresh each cycle until the context is canceled.
func (s *RefreshService) Serve(ctx context.Context) error {
	if s.runAtBoot {
		s.runCycle(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *RefreshService) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.refresher.RefreshAll(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("suggestion refresh cycle finished with failures")
	}
}

// String implements fmt.Stringer. Suture uses this to identify the
// service in log messages.
func (s *RefreshService) String() string {
	return s.name
}
