// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/keepskip/config.yaml",
	"/etc/keepskip/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			Host:              "0.0.0.0",
			Timeout:           30 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			Environment:       "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Remote: RemoteConfig{
			Backend:           BackendSupabase,
			Schema:            "public",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
			Burst:             10,
			MaxConns:          4,
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:      true,
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		Weights: WeightsConfig{
			KeepTagDelta:  0.2,
			SkipTagDelta:  -0.1,
			KeepPairDelta: 0.3,
			Mode:          WeightModeIndependent,
			Concurrency:   4,
		},
		Snapshots: SnapshotsConfig{
			FeedPath:        "data.json",
			WeeklyPath:      "weekly.json",
			RefreshSchedule: "@every 5m",
			FeedLimit:       100,
		},
		Saved: SavedConfig{
			Limit:    200,
			CacheTTL: time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     60,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Health: HealthConfig{
			ProbeSchedule: "@every 1m",
			ProbeTimeout:  5 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Config File (optional)
//  3. Environment Variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":                "server.port",
	"http_host":                "server.host",
	"http_timeout":             "server.timeout",
	"http_read_header_timeout": "server.read_header_timeout",
	"shutdown_timeout":         "server.shutdown_timeout",
	"environment":              "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Remote data service. SUPABASE_* match the names used by the batch jobs.
	"remote_backend":     "remote.backend",
	"supabase_url":       "remote.url",
	"supabase_anon_key":  "remote.api_key",
	"supabase_schema":    "remote.schema",
	"remote_timeout":     "remote.timeout",
	"remote_rps":         "remote.requests_per_second",
	"remote_burst":       "remote.burst",
	"database_url":       "remote.database_url",
	"database_max_conns": "remote.max_conns",

	// Circuit breaker
	"circuit_breaker_enabled":       "circuit_breaker.enabled",
	"circuit_breaker_max_requests":  "circuit_breaker.max_requests",
	"circuit_breaker_interval":      "circuit_breaker.interval",
	"circuit_breaker_timeout":       "circuit_breaker.timeout",
	"circuit_breaker_min_requests":  "circuit_breaker.min_requests",
	"circuit_breaker_failure_ratio": "circuit_breaker.failure_ratio",

	// Weighting policy
	"weight_keep_tag_delta":  "weights.keep_tag_delta",
	"weight_skip_tag_delta":  "weights.skip_tag_delta",
	"weight_keep_pair_delta": "weights.keep_pair_delta",
	"weight_mode":            "weights.mode",
	"weight_concurrency":     "weights.concurrency",

	// Snapshots
	"feed_path":                 "snapshots.feed_path",
	"weekly_path":               "snapshots.weekly_path",
	"snapshot_refresh_schedule": "snapshots.refresh_schedule",
	"feed_limit":                "snapshots.feed_limit",

	// Saved items
	"saved_limit":     "saved.limit",
	"saved_cache_ttl": "saved.cache_ttl",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Health probe
	"health_probe_schedule": "health.probe_schedule",
	"health_probe_timeout":  "health.probe_timeout",
}

// envTransformFunc transforms environment variable names to koanf paths.
//
// Examples:
//   - SUPABASE_URL -> remote.url
//   - HTTP_PORT -> server.port
//   - WEIGHT_MODE -> weights.mode
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
