// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "feed", "suggestion_page"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache store errors (request still served via compute path)",
		},
		[]string{"cache_type"},
	)

	// Feed Assembly Metrics
	FeedAssemblyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_assembly_duration_seconds",
			Help:    "Duration of full feed assembly (cache-miss path)",
			Buckets: prometheus.DefBuckets,
		},
	)

	FeedPostsAssembled = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_posts_assembled",
			Help:    "Number of posts in assembled feeds before pagination",
			Buckets: []float64{10, 30, 50, 75, 100, 130},
		},
	)

	FeedColdStartFills = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_cold_start_fills_total",
			Help: "Total number of feeds padded with globally recent posts",
		},
	)

	// Suggestion Refresh Metrics
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggestion_refresh_duration_seconds",
			Help:    "Duration of full-population suggestion refresh runs",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	RefreshUsersProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestion_refresh_users_processed_total",
			Help: "Total number of subjects processed by refresh runs",
		},
	)

	RefreshErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_refresh_errors_total",
			Help: "Total number of per-subject refresh failures",
		},
		[]string{"error_type"}, // "store", "cache"
	)

	RefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "suggestion_refresh_last_success_timestamp",
			Help: "Unix timestamp of last fully successful refresh run",
		},
	)

	LeaderboardCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggestion_leaderboard_candidates",
			Help:    "Number of positive-score candidates written per leaderboard rebuild",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	OnDemandRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestion_on_demand_refreshes_total",
			Help: "Total number of lazy single-subject recomputations on the request path",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheHit records a hit for the given cache type
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a miss for the given cache type
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheError records a cache store failure for the given cache type
func RecordCacheError(cacheType string) {
	CacheErrors.WithLabelValues(cacheType).Inc()
}

// RecordFeedAssembly records one full assembly pass
func RecordFeedAssembly(duration time.Duration, postCount int, coldStartFilled bool) {
	FeedAssemblyDuration.Observe(duration.Seconds())
	FeedPostsAssembled.Observe(float64(postCount))
	if coldStartFilled {
		FeedColdStartFills.Inc()
	}
}

// RecordRefreshRun records a full-population refresh run
func RecordRefreshRun(duration time.Duration, usersProcessed int, err error) {
	RefreshDuration.Observe(duration.Seconds())
	RefreshUsersProcessed.Add(float64(usersProcessed))
	if err == nil {
		RefreshLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordLeaderboardRebuild records the candidate count of one rebuild
func RecordLeaderboardRebuild(candidates int) {
	LeaderboardCandidates.Observe(float64(candidates))
}
