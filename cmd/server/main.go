// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

// Package main is the entry point for the Kindred server.
//
// Kindred ranks personalized feeds and computes follow suggestions for
// a social network. The server initializes components in order:
//
//  1. Configuration: layered defaults, YAML file, KINDRED_ env vars (Koanf v2)
//  2. Content store: BadgerDB (or in-memory for development)
//  3. Ranking cache: Redis behind a circuit breaker (or in-memory)
//  4. Services: feed assembly, suggestion scoring, leaderboard refresh
//  5. Supervisor tree: HTTP server and background refresh loop (suture)
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests within the
// configured timeout, and closes the store and cache.
//
// # Example Usage
//
// Development, everything in memory:
//
//	export KINDRED_STORE_BACKEND=memory
//	export KINDRED_CACHE_BACKEND=memory
//	./kindred
//
// Production with Redis:
//
//	export KINDRED_CACHE_REDIS_ADDR=redis:6379
//	export KINDRED_STORE_BADGER_PATH=/var/lib/kindred
//	./kindred
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/kindred/internal/api"
	"github.com/tomtom215/kindred/internal/cache"
	"github.com/tomtom215/kindred/internal/config"
	"github.com/tomtom215/kindred/internal/feed"
	"github.com/tomtom215/kindred/internal/logging"
	"github.com/tomtom215/kindred/internal/rank"
	"github.com/tomtom215/kindred/internal/store"
	"github.com/tomtom215/kindred/internal/suggest"
	"github.com/tomtom215/kindred/internal/supervisor"
	"github.com/tomtom215/kindred/internal/supervisor/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("store_backend", cfg.Store.Backend).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("Starting Kindred")

	contentStore, err := openStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open content store")
	}
	defer func() {
		if err := contentStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing content store")
		}
	}()

	rankCache := openCache(cfg)
	defer func() {
		if err := rankCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}()

	// Confirm cache reachability early. A down cache is not fatal:
	// every read path degrades to direct store computation.
	if err := rankCache.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Cache unreachable at startup, serving from store until it recovers")
	}

	assembler := feed.NewAssembler(contentStore,
		feed.WithSourceLimit(cfg.Feed.SourceLimit),
		feed.WithColdStartFloor(cfg.Feed.ColdStartFloor),
	)
	feedSvc := feed.NewService(assembler, rankCache,
		feed.WithCacheTTL(cfg.Feed.CacheTTL),
	)

	refresher := suggest.NewRefresher(contentStore, rankCache,
		suggest.WithLeaderboardTTL(cfg.Suggest.LeaderboardTTL),
		suggest.WithWeights(rank.Weights{Mutual: cfg.Suggest.MutualWeight}),
	)
	suggestSvc := suggest.NewService(contentStore, rankCache, refresher,
		suggest.WithPageTTL(cfg.Suggest.PageTTL),
		suggest.WithOnDemandTimeout(cfg.Suggest.OnDemandTimeout),
	)

	handler := api.NewHandler(feedSvc, suggestSvc, refresher, rankCache, version)
	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.API.CORSAllowedOrigins
	mwConfig.RateLimitRequests = cfg.API.RateLimitRequests
	mwConfig.RateLimitWindow = cfg.API.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.API.RateLimitDisabled
	router := api.NewRouter(handler, mwConfig)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddRankingService(services.NewRefreshService(refresher, cfg.Suggest.RefreshInterval, services.WithInitialRun()))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Stopped gracefully")
}

// openStore opens the configured content store backend.
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Store.Backend == "memory" {
		return store.NewMemory(), nil
	}
	return store.OpenBadger(cfg.Store.Badger)
}

// openCache builds the configured cache backend. Redis is wrapped in a
// circuit breaker so a cache outage sheds fast instead of stalling
// every request on connection timeouts.
func openCache(cfg *config.Config) cache.Store {
	if cfg.Cache.Backend == "memory" {
		return cache.NewMemory()
	}
	return cache.NewBreakerStore(cache.NewRedis(cfg.Cache.Redis), "redis")
}
