// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

// Package config loads Keepskip configuration with Koanf v2.
//
// Configuration Loading Order:
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH or config.yaml)
//  3. Environment Variables: explicit names mapped in envTransformFunc
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server         ServerConfig         `koanf:"server"`
	Logging        LoggingConfig        `koanf:"logging"`
	Remote         RemoteConfig         `koanf:"remote"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	Weights        WeightsConfig        `koanf:"weights"`
	Snapshots      SnapshotsConfig      `koanf:"snapshots"`
	Saved          SavedConfig          `koanf:"saved"`
	Security       SecurityConfig       `koanf:"security"`
	Health         HealthConfig         `koanf:"health"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port              int           `koanf:"port"`
	Host              string        `koanf:"host"`
	Timeout           time.Duration `koanf:"timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	Environment       string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Remote data service backends.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
)

// RemoteConfig selects and configures the hosted data service that stores
// votes, items and weights.
//
// Environment Variables:
//   - REMOTE_BACKEND: supabase or postgres (default: supabase)
//   - SUPABASE_URL: project base URL, e.g. https://xyz.supabase.co
//   - SUPABASE_ANON_KEY: API key sent as apikey and bearer token
//   - SUPABASE_SCHEMA: Accept-Profile/Content-Profile schema (default: public)
//   - REMOTE_TIMEOUT: per-request timeout (default: 10s)
//   - REMOTE_RPS: outbound requests per second, 0 disables limiting (default: 20)
//   - REMOTE_BURST: limiter burst (default: 10)
//   - DATABASE_URL: postgres connection string for the postgres backend
//   - DATABASE_MAX_CONNS: pool size for the postgres backend (default: 4)
type RemoteConfig struct {
	Backend           string        `koanf:"backend"`
	URL               string        `koanf:"url"`
	APIKey            string        `koanf:"api_key"`
	Schema            string        `koanf:"schema"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	DatabaseURL       string        `koanf:"database_url"`
	MaxConns          int32         `koanf:"max_conns"`
}

// CircuitBreakerConfig tunes the breaker around the supabase backend.
type CircuitBreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`  // allowed through while half-open
	Interval     time.Duration `koanf:"interval"`      // closed-state count reset period
	Timeout      time.Duration `koanf:"timeout"`       // open-state duration
	MinRequests  uint32        `koanf:"min_requests"`  // requests before the ratio is considered
	FailureRatio float64       `koanf:"failure_ratio"` // trip threshold
}

// Weight dispatch modes.
const (
	WeightModeIndependent = "independent"
	WeightModeBatched     = "batched"
)

// WeightsConfig holds the preference-weighting policy.
//
// Environment Variables:
//   - WEIGHT_KEEP_TAG_DELTA (default: 0.2)
//   - WEIGHT_SKIP_TAG_DELTA (default: -0.1)
//   - WEIGHT_KEEP_PAIR_DELTA (default: 0.3)
//   - WEIGHT_MODE: independent or batched (default: independent)
//   - WEIGHT_CONCURRENCY: parallel remote calls per vote, 1 = sequential (default: 4)
type WeightsConfig struct {
	KeepTagDelta  float64 `koanf:"keep_tag_delta"`
	SkipTagDelta  float64 `koanf:"skip_tag_delta"`
	KeepPairDelta float64 `koanf:"keep_pair_delta"`
	Mode          string  `koanf:"mode"`
	Concurrency   int     `koanf:"concurrency"`
}

// SnapshotsConfig points at the JSON files written by the batch jobs.
type SnapshotsConfig struct {
	FeedPath        string `koanf:"feed_path"`
	WeeklyPath      string `koanf:"weekly_path"`
	RefreshSchedule string `koanf:"refresh_schedule"` // cron spec or @every descriptor
	FeedLimit       int    `koanf:"feed_limit"`
}

// SavedConfig controls the saved-items listing.
type SavedConfig struct {
	Limit    int           `koanf:"limit"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// HealthConfig controls the periodic remote health probe.
type HealthConfig struct {
	ProbeSchedule string        `koanf:"probe_schedule"`
	ProbeTimeout  time.Duration `koanf:"probe_timeout"`
}

// Load loads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsBatched reports whether weight updates go out as one batched call.
func (c *Config) IsBatched() bool {
	return c.Weights.Mode == WeightModeBatched
}
