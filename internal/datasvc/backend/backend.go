// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

// Package backend builds the configured remote data service.
package backend

import (
	"context"
	"fmt"

	"github.com/tomtom215/keepskip/internal/config"
	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/datasvc/postgres"
	"github.com/tomtom215/keepskip/internal/datasvc/supabase"
	"github.com/tomtom215/keepskip/internal/logging"
)

// Backend is an opened data service plus its cleanup.
type Backend struct {
	Service datasvc.Service
	Name    string

	// Postgres is set for the postgres backend so callers can apply the
	// schema.
	Postgres *postgres.Store

	closeFn func()
}

// Close releases connections held by the backend.
func (b *Backend) Close() {
	if b.closeFn != nil {
		b.closeFn()
	}
}

// Open creates the data service selected by remote.backend. The supabase
// client is wrapped in a circuit breaker unless circuit_breaker.enabled is
// false.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Remote.Backend {
	case config.BackendSupabase:
		client := supabase.NewClient(supabase.Config{
			URL:               cfg.Remote.URL,
			APIKey:            cfg.Remote.APIKey,
			Schema:            cfg.Remote.Schema,
			Timeout:           cfg.Remote.Timeout,
			RequestsPerSecond: cfg.Remote.RequestsPerSecond,
			Burst:             cfg.Remote.Burst,
		})
		if !cfg.CircuitBreaker.Enabled {
			logging.Warn().Msg("Circuit breaker disabled for the supabase backend")
			return &Backend{Service: client, Name: config.BackendSupabase}, nil
		}

		breaker := supabase.NewCircuitBreakerClient(client, supabase.BreakerConfig{
			MaxRequests:  cfg.CircuitBreaker.MaxRequests,
			Interval:     cfg.CircuitBreaker.Interval,
			Timeout:      cfg.CircuitBreaker.Timeout,
			MinRequests:  cfg.CircuitBreaker.MinRequests,
			FailureRatio: cfg.CircuitBreaker.FailureRatio,
		})
		return &Backend{Service: breaker, Name: config.BackendSupabase}, nil

	case config.BackendPostgres:
		store, err := postgres.New(ctx, postgres.Config{
			DatabaseURL: cfg.Remote.DatabaseURL,
			MaxConns:    cfg.Remote.MaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		return &Backend{
			Service:  store,
			Name:     config.BackendPostgres,
			Postgres: store,
			closeFn:  store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown remote backend %q", cfg.Remote.Backend)
	}
}
