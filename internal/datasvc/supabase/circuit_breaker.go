// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package supabase

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/logging"
	"github.com/tomtom215/keepskip/internal/metrics"
	"github.com/tomtom215/keepskip/internal/models"
)

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32        // allowed through while half-open
	Interval     time.Duration // closed-state count reset period
	Timeout      time.Duration // open-state duration before half-open
	MinRequests  uint32        // requests needed before the ratio counts
	FailureRatio float64       // trip when failures/requests >= ratio
}

// DefaultBreakerConfig opens after 60% failures over at least 10 requests
// and probes again after 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "supabase-api",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// CircuitBreakerClient wraps Client with a circuit breaker so that an
// unavailable Supabase project fails fast instead of stalling every vote.
//
// Not-found lookups and 4xx responses count as successful calls: they prove
// the backend is up.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

var (
	_ datasvc.Service          = (*CircuitBreakerClient)(nil)
	_ datasvc.SavedItemsReader = (*CircuitBreakerClient)(nil)
	_ datasvc.BatchApplier     = (*CircuitBreakerClient)(nil)
	_ datasvc.Pinger           = (*CircuitBreakerClient)(nil)
)

// NewCircuitBreakerClient wraps client.
func NewCircuitBreakerClient(client *Client, cfg BreakerConfig) *CircuitBreakerClient {
	if cfg.Name == "" {
		cfg.Name = DefaultBreakerConfig().Name
	}
	cbName := cfg.Name

	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio

			if shouldTrip {
				logging.Warn().
					Str("breaker", cbName).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: isBackendHealthy,

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// State returns the current breaker state as "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

// callerSideError marks a failure that started with the caller: its context
// ended, or the local rate limiter gave up. It says nothing about the
// backend.
type callerSideError struct {
	err error
}

func (e *callerSideError) Error() string { return e.err.Error() }

func (e *callerSideError) Unwrap() error { return e.err }

// isBackendHealthy decides which errors count against the breaker.
func isBackendHealthy(err error) bool {
	if err == nil || errors.Is(err, datasvc.ErrNotFound) || errors.Is(err, context.Canceled) {
		return true
	}
	var side *callerSideError
	if errors.As(err, &side) {
		return true
	}
	var svcErr *datasvc.ServiceError
	if errors.As(err, &svcErr) && svcErr.StatusCode >= 400 && svcErr.StatusCode < 500 && svcErr.StatusCode != 429 {
		return true
	}
	return false
}

// execute wraps a Supabase call with circuit breaker protection.
// Rejected calls return a ServiceError wrapping datasvc.ErrCircuitOpen.
// Caller-side failures do not count against the breaker.
func (cbc *CircuitBreakerClient) execute(ctx context.Context, op string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(func() (interface{}, error) {
		res, err := fn()
		var side *callerSideError
		if err != nil && ctx.Err() != nil && !errors.As(err, &side) {
			return res, &callerSideError{err: err}
		}
		return res, err
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Str("op", op).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, &datasvc.ServiceError{Op: op, Message: err.Error(), Err: datasvc.ErrCircuitOpen}
		}

		if isBackendHealthy(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		if side, ok := err.(*callerSideError); ok {
			err = side.err
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

// run is execute for calls without a result.
func (cbc *CircuitBreakerClient) run(ctx context.Context, op string, fn func() error) error {
	_, err := cbc.execute(ctx, op, func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// InsertVote records a vote with circuit breaker protection
func (cbc *CircuitBreakerClient) InsertVote(ctx context.Context, itemID models.ID, voteType string) error {
	return cbc.run(ctx, "insert_vote", func() error {
		return cbc.client.InsertVote(ctx, itemID, voteType)
	})
}

// GetItemTags reads item tags with circuit breaker protection
func (cbc *CircuitBreakerClient) GetItemTags(ctx context.Context, itemID models.ID) (datasvc.ItemTags, error) {
	result, err := cbc.execute(ctx, "get_item_tags", func() (interface{}, error) {
		return cbc.client.GetItemTags(ctx, itemID)
	})
	if err != nil {
		return datasvc.ItemTags{}, err
	}
	tags, _ := result.(datasvc.ItemTags)
	return tags, nil
}

// IncrementTagWeight bumps a tag weight with circuit breaker protection
func (cbc *CircuitBreakerClient) IncrementTagWeight(ctx context.Context, tagName string, delta float64) error {
	return cbc.run(ctx, "increment_tag_weight", func() error {
		return cbc.client.IncrementTagWeight(ctx, tagName, delta)
	})
}

// IncrementPairWeight bumps a pair weight with circuit breaker protection
func (cbc *CircuitBreakerClient) IncrementPairWeight(ctx context.Context, tagA, tagB string, delta float64) error {
	return cbc.run(ctx, "increment_pair_weight", func() error {
		return cbc.client.IncrementPairWeight(ctx, tagA, tagB, delta)
	})
}

// ApplyWeights runs a weight batch with circuit breaker protection
func (cbc *CircuitBreakerClient) ApplyWeights(ctx context.Context, ops []datasvc.WeightOp) error {
	return cbc.run(ctx, "apply_weight_batch", func() error {
		return cbc.client.ApplyWeights(ctx, ops)
	})
}

// ListKeptItems lists saved items with circuit breaker protection
func (cbc *CircuitBreakerClient) ListKeptItems(ctx context.Context, limit int) ([]models.SavedItem, error) {
	result, err := cbc.execute(ctx, "list_kept_items", func() (interface{}, error) {
		return cbc.client.ListKeptItems(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	saved, _ := result.([]models.SavedItem)
	return saved, nil
}

// Ping checks connectivity with circuit breaker protection
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	return cbc.run(ctx, "ping", func() error {
		return cbc.client.Ping(ctx)
	})
}
