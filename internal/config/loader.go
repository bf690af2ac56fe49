// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix namespaces every environment override, for example
	// KINDRED_SERVER_PORT=9090.
	EnvPrefix = "KINDRED_"

	// ConfigPathEnvVar points at an explicit config file and wins
	// over the search paths below.
	ConfigPathEnvVar = "KINDRED_CONFIG_PATH"
)

// DefaultConfigPaths are searched in order when KINDRED_CONFIG_PATH is
// unset. A missing file is not an error; defaults and environment
// variables alone are a valid configuration.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config/config.yaml",
	"/etc/kindred/config.yaml",
}

// Load builds the configuration from layered sources:
//
//  1. Built-in defaults.
//  2. YAML config file, if one is found.
//  3. KINDRED_-prefixed environment variables.
//
// Later layers override earlier ones field by field.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	origins, hasOrigins := popSliceKey(k, "api.cors_allowed_origins")

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if hasOrigins {
		cfg.API.CORSAllowedOrigins = origins
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// findConfigFile resolves the config file path, preferring the
// explicit KINDRED_CONFIG_PATH over the default search list.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envKeyOverrides maps variable names that the single-replace rule
// below cannot resolve: keys under doubly nested sections, where more
// than one underscore separates path segments.
var envKeyOverrides = map[string]string{
	"cache_redis_addr":         "cache.redis.addr",
	"cache_redis_password":     "cache.redis.password",
	"cache_redis_db":           "cache.redis.db",
	"cache_redis_dial_timeout": "cache.redis.dial_timeout",
	"store_badger_path":        "store.badger.path",
	"store_badger_in_memory":   "store.badger.in_memory",
}

// envTransform maps KINDRED_SERVER_PORT to server.port. Doubly nested
// keys come from the explicit table; otherwise only the first
// underscore becomes a section separator so multi-word leaf keys such
// as feed.cold_start_floor survive the mapping.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if mapped, ok := envKeyOverrides[s]; ok {
		return mapped
	}
	return strings.Replace(s, "_", ".", 1)
}

// popSliceKey extracts a list-valued setting and removes it before
// unmarshalling. The env provider delivers lists as a single string,
// comma-separated, which would otherwise fail to decode into []string:
// KINDRED_API_CORS_ALLOWED_ORIGINS="https://a.example,https://b.example".
func popSliceKey(k *koanf.Koanf, key string) ([]string, bool) {
	raw, ok := k.Get(key).(string)
	if !ok {
		return nil, false
	}
	k.Delete(key)

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values, true
}
