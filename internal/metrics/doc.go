// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: Active requests (gauge)

Vote Metrics:
  - votes_recorded_total: Vote inserts (counter)
    Labels: kind, outcome
  - weight_calls_total: Weight increment calls (counter)
    Labels: target (tag, pair, batch), outcome
  - weight_ops_per_vote: Operations derived from one vote (histogram)

Remote Data Service Metrics:
  - remote_call_duration_seconds: Latency per backend and op (histogram)
  - remote_call_errors_total: Failed calls per backend and op (counter)
  - remote_healthy: Last health probe result (gauge)
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_state_transitions_total: Labels name, from_state, to_state

Snapshot, Cache and Scheduler Metrics:
  - snapshot_reloads_total, snapshot_items, snapshot_last_success_timestamp
  - cache_hits_total, cache_misses_total, cache_invalidations_total
  - scheduler_job_runs_total, scheduler_job_duration_seconds

# Usage

	start := time.Now()
	err := client.IncrementTagWeight(ctx, "logo", 0.2)
	metrics.RecordRemoteCall("supabase", "increment_tag_weight", time.Since(start), err)
*/
package metrics
