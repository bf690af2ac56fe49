// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/kindred/internal/cache"
	"github.com/tomtom215/kindred/internal/store"
)

// Config is the root configuration for the Kindred server.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	Cache   CacheConfig   `koanf:"cache"`
	Feed    FeedConfig    `koanf:"feed"`
	Suggest SuggestConfig `koanf:"suggest"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// ReadTimeout and WriteTimeout bound slow clients.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout caps graceful shutdown on SIGTERM.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig selects and configures the content store backend.
type StoreConfig struct {
	// Backend is "badger" or "memory".
	Backend string `koanf:"backend"`

	Badger store.BadgerConfig `koanf:"badger"`
}

// CacheConfig selects and configures the ranking cache backend.
type CacheConfig struct {
	// Backend is "redis" or "memory".
	Backend string `koanf:"backend"`

	Redis cache.RedisConfig `koanf:"redis"`
}

// FeedConfig tunes personalized feed assembly.
type FeedConfig struct {
	// SourceLimit caps each candidate source per assembly.
	SourceLimit int `koanf:"source_limit"`

	// ColdStartFloor is the minimum feed size topped up from
	// global recent posts.
	ColdStartFloor int `koanf:"cold_start_floor"`

	// CacheTTL bounds staleness of a cached feed.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// SuggestConfig tunes follow-suggestion scoring and refresh.
type SuggestConfig struct {
	// RefreshInterval is the cadence of the background rebuild of
	// every user's suggestion leaderboard.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	LeaderboardTTL time.Duration `koanf:"leaderboard_ttl"`
	PageTTL        time.Duration `koanf:"page_ttl"`

	// OnDemandTimeout bounds the single-user rebuild performed when
	// a request finds an empty leaderboard.
	OnDemandTimeout time.Duration `koanf:"on_demand_timeout"`

	// MutualWeight multiplies the mutual-connection count in the
	// candidate score.
	MutualWeight float64 `koanf:"mutual_weight"`
}

// APIConfig holds HTTP API behavior shared across handlers.
type APIConfig struct {
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`

	// Caller includes caller file and line in each event.
	Caller bool `koanf:"caller"`
}

// defaultConfig returns the built-in defaults. File and environment
// layers override these field by field.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend: "badger",
			Badger: store.BadgerConfig{
				Path: "data/kindred",
			},
		},
		Cache: CacheConfig{
			Backend: "redis",
			Redis: cache.RedisConfig{
				Addr:        "localhost:6379",
				DB:          0,
				DialTimeout: 5 * time.Second,
			},
		},
		Feed: FeedConfig{
			SourceLimit:    50,
			ColdStartFloor: 30,
			CacheTTL:       5 * time.Minute,
		},
		Suggest: SuggestConfig{
			RefreshInterval: 10 * time.Minute,
			LeaderboardTTL:  5 * time.Minute,
			PageTTL:         5 * time.Minute,
			OnDemandTimeout: 30 * time.Second,
			MutualWeight:    10,
		},
		API: APIConfig{
			CORSAllowedOrigins: nil,
			RateLimitRequests:  100,
			RateLimitWindow:    time.Minute,
			RateLimitDisabled:  false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for values that would make the
// server misbehave at runtime rather than fail fast at startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Store.Backend {
	case "badger", "memory":
	default:
		return fmt.Errorf("store.backend must be badger or memory, got %q", c.Store.Backend)
	}
	if c.Store.Backend == "badger" && !c.Store.Badger.InMemory && c.Store.Badger.Path == "" {
		return fmt.Errorf("store.badger.path is required for an on-disk badger store")
	}

	switch c.Cache.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("cache.backend must be redis or memory, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for the redis backend")
	}

	if c.Feed.SourceLimit < 1 {
		return fmt.Errorf("feed.source_limit must be positive, got %d", c.Feed.SourceLimit)
	}
	if c.Feed.ColdStartFloor < 0 {
		return fmt.Errorf("feed.cold_start_floor must not be negative, got %d", c.Feed.ColdStartFloor)
	}
	if c.Feed.CacheTTL <= 0 {
		return fmt.Errorf("feed.cache_ttl must be positive, got %s", c.Feed.CacheTTL)
	}

	if c.Suggest.RefreshInterval <= 0 {
		return fmt.Errorf("suggest.refresh_interval must be positive, got %s", c.Suggest.RefreshInterval)
	}
	if c.Suggest.LeaderboardTTL <= 0 {
		return fmt.Errorf("suggest.leaderboard_ttl must be positive, got %s", c.Suggest.LeaderboardTTL)
	}
	if c.Suggest.PageTTL <= 0 {
		return fmt.Errorf("suggest.page_ttl must be positive, got %s", c.Suggest.PageTTL)
	}
	if c.Suggest.OnDemandTimeout <= 0 {
		return fmt.Errorf("suggest.on_demand_timeout must be positive, got %s", c.Suggest.OnDemandTimeout)
	}
	if c.Suggest.MutualWeight <= 0 {
		return fmt.Errorf("suggest.mutual_weight must be positive, got %g", c.Suggest.MutualWeight)
	}

	if !c.API.RateLimitDisabled {
		if c.API.RateLimitRequests < 1 {
			return fmt.Errorf("api.rate_limit_requests must be positive, got %d", c.API.RateLimitRequests)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("api.rate_limit_window must be positive, got %s", c.API.RateLimitWindow)
		}
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
