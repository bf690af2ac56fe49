// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/kindred/internal/cache"
	"github.com/tomtom215/kindred/internal/feed"
	"github.com/tomtom215/kindred/internal/logging"
	"github.com/tomtom215/kindred/internal/store"
	"github.com/tomtom215/kindred/internal/suggest"
	"github.com/tomtom215/kindred/internal/validation"
)

// Handler bundles the services behind the HTTP endpoints.
type Handler struct {
	feed      *feed.Service
	suggest   *suggest.Service
	refresher *suggest.Refresher
	cache     cache.Store
	version   string
	startTime time.Time

	refreshInFlight atomic.Bool
}

// NewHandler creates the endpoint handler set.
func NewHandler(feedSvc *feed.Service, suggestSvc *suggest.Service, refresher *suggest.Refresher, cacheStore cache.Store, version string) *Handler {
	return &Handler{
		feed:      feedSvc,
		suggest:   suggestSvc,
		refresher: refresher,
		cache:     cacheStore,
		version:   version,
		startTime: time.Now(),
	}
}

// pageParams carries validated pagination query parameters.
type pageParams struct {
	Page  int `validate:"min=1"`
	Limit int `validate:"min=1,max=100"`
}

// parsePageParams reads page and limit from the query string, applying
// defaults of 1 and 20. Returns false after writing the error response.
func parsePageParams(rw *ResponseWriter, r *http.Request) (pageParams, bool) {
	params := pageParams{Page: 1, Limit: 20}

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			rw.BadRequest("page must be an integer")
			return params, false
		}
		params.Page = n
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			rw.BadRequest("limit must be an integer")
			return params, false
		}
		params.Limit = n
	}

	if verr := validation.ValidateStruct(&params); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return params, false
	}
	return params, true
}

// respondServiceError maps service failures to API errors. Unknown subjects
// are a client error; everything else is an upstream failure surfaced as-is.
func respondServiceError(rw *ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("user not found")
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	rw.UpstreamError("upstream store or cache unavailable")
}

// Feed handles GET /api/v1/feed/{userID}.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	params, ok := parsePageParams(rw, r)
	if !ok {
		return
	}

	posts, cached, err := h.feed.GetPersonalizedFeed(r.Context(), userID, params.Page, params.Limit)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}

	rw.SuccessWithMeta(posts, &APIMeta{
		Cached: cached,
		Pagination: &PaginationMeta{
			Count: len(posts),
			Page:  params.Page,
			Limit: params.Limit,
		},
	})
}

// SuggestedUsers handles GET /api/v1/users/{userID}/suggested.
func (h *Handler) SuggestedUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	params, ok := parsePageParams(rw, r)
	if !ok {
		return
	}

	users, cached, err := h.suggest.GetSuggestedUsers(r.Context(), userID, params.Page, params.Limit)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}

	rw.SuccessWithMeta(users, &APIMeta{
		Cached: cached,
		Pagination: &PaginationMeta{
			Count: len(users),
			Page:  params.Page,
			Limit: params.Limit,
		},
	})
}

// BrowseUsers handles GET /api/v1/users/{userID}/browse. Ranked suggestions
// come first, then the rest of the population.
func (h *Handler) BrowseUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	params, ok := parsePageParams(rw, r)
	if !ok {
		return
	}

	users, err := h.suggest.GetPaginatedUsers(r.Context(), userID, params.Page, params.Limit)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}

	rw.SuccessWithMeta(users, &APIMeta{
		Pagination: &PaginationMeta{
			Count: len(users),
			Page:  params.Page,
			Limit: params.Limit,
		},
	})
}

// RefreshSuggestions handles POST /api/v1/suggestions/refresh. The rebuild
// covers every user, so it runs detached from the request; a run already in
// flight is reported rather than doubled.
func (h *Handler) RefreshSuggestions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if !h.refreshInFlight.CompareAndSwap(false, true) {
		rw.Accepted(map[string]string{"status": "already_running"})
		return
	}

	correlationID := logging.CorrelationIDFromContext(r.Context())
	go func() {
		defer h.refreshInFlight.Store(false)
		ctx := logging.ContextWithCorrelationID(context.Background(), correlationID)
		if err := h.refresher.RefreshAll(ctx); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Manual suggestion refresh failed")
		}
	}()

	rw.Accepted(map[string]string{"status": "started"})
}

// Health handles GET /api/v1/health. The cache being down degrades the
// report but the service stays available; requests fall back to direct
// computation.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	cacheStatus := "up"
	status := "ok"
	if err := h.cache.Ping(ctx); err != nil {
		cacheStatus = "down"
		status = "degraded"
	}

	rw.Success(map[string]interface{}{
		"status":  status,
		"version": h.version,
		"uptime":  time.Since(h.startTime).String(),
		"components": map[string]string{
			"cache": cacheStatus,
		},
	})
}
