// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRemote(); err != nil {
		return err
	}

	if err := c.validateCircuitBreaker(); err != nil {
		return err
	}

	if err := c.validateWeights(); err != nil {
		return err
	}

	if err := c.validateSchedules(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateRemote checks the settings of the selected backend only.
func (c *Config) validateRemote() error {
	switch c.Remote.Backend {
	case BackendSupabase:
		return c.validateSupabase()
	case BackendPostgres:
		return c.validatePostgres()
	default:
		return fmt.Errorf("REMOTE_BACKEND must be one of: %s, %s (got %q)",
			BackendSupabase, BackendPostgres, c.Remote.Backend)
	}
}

func (c *Config) validateSupabase() error {
	if c.Remote.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required when REMOTE_BACKEND=supabase")
	}
	if err := validateHTTPURL(c.Remote.URL, "SUPABASE_URL"); err != nil {
		return fmt.Errorf("SUPABASE_URL is invalid: %w", err)
	}
	if c.Remote.APIKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required when REMOTE_BACKEND=supabase")
	}
	if containsPlaceholder(c.Remote.APIKey) {
		return fmt.Errorf("SUPABASE_ANON_KEY still contains a placeholder value")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT must be positive")
	}
	if c.Remote.RequestsPerSecond < 0 {
		return fmt.Errorf("REMOTE_RPS must not be negative")
	}
	if c.Remote.RequestsPerSecond > 0 && c.Remote.Burst < 1 {
		return fmt.Errorf("REMOTE_BURST must be at least 1 when REMOTE_RPS is set")
	}
	return nil
}

func (c *Config) validatePostgres() error {
	if c.Remote.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when REMOTE_BACKEND=postgres")
	}
	if err := validatePostgresURL(c.Remote.DatabaseURL); err != nil {
		return fmt.Errorf("DATABASE_URL is invalid: %w", err)
	}
	if c.Remote.MaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be at least 1")
	}
	return nil
}

func (c *Config) validateCircuitBreaker() error {
	if !c.CircuitBreaker.Enabled {
		return nil
	}
	if c.CircuitBreaker.FailureRatio <= 0 || c.CircuitBreaker.FailureRatio > 1 {
		return fmt.Errorf("CIRCUIT_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if c.CircuitBreaker.Timeout <= 0 {
		return fmt.Errorf("CIRCUIT_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateWeights() error {
	switch c.Weights.Mode {
	case WeightModeIndependent, WeightModeBatched:
	default:
		return fmt.Errorf("WEIGHT_MODE must be one of: %s, %s (got %q)",
			WeightModeIndependent, WeightModeBatched, c.Weights.Mode)
	}
	if c.Weights.Concurrency < 1 {
		return fmt.Errorf("WEIGHT_CONCURRENCY must be at least 1")
	}
	return nil
}

// validateSchedules parses every cron spec the scheduler will register.
func (c *Config) validateSchedules() error {
	specs := map[string]string{
		"SNAPSHOT_REFRESH_SCHEDULE": c.Snapshots.RefreshSchedule,
		"HEALTH_PROBE_SCHEDULE":     c.Health.ProbeSchedule,
	}
	for name, spec := range specs {
		if spec == "" {
			continue // job disabled
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%s is not a valid cron spec: %w", name, err)
		}
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// HasWildcardCORS reports whether any CORS origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// placeholderPatterns catch copied sample values such as "your-anon-key".
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR-ANON-KEY",
	"YOUR_ANON_KEY",
	"PLACEHOLDER",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
