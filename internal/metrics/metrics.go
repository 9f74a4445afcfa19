// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by several metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// API Metrics
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

	// Vote Metrics
	VotesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_recorded_total",
			Help: "Total number of vote insert attempts",
		},
		[]string{"kind", "outcome"},
	)

	WeightCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weight_calls_total",
			Help: "Total number of weight increment calls",
		},
		[]string{"target", "outcome"}, // target: "tag", "pair", "batch"
	)

	WeightOpsPerVote = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weight_ops_per_vote",
			Help:    "Number of weight operations derived from one vote",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
		},
	)

	// Remote Data Service Metrics
	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_call_duration_seconds",
			Help:    "Duration of remote data service calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)

	RemoteCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_call_errors_total",
			Help: "Total number of failed remote data service calls",
		},
		[]string{"backend", "op"},
	)

	RemoteHealthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "remote_healthy",
			Help: "Result of the last remote health probe (1=reachable, 0=unreachable)",
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

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Snapshot Metrics
	SnapshotReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_reloads_total",
			Help: "Total number of snapshot reload attempts",
		},
		[]string{"snapshot", "outcome"}, // outcome: "success", "failure", "missing"
	)

	SnapshotItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snapshot_items",
			Help: "Number of entries in the currently served snapshot",
		},
		[]string{"snapshot"},
	)

	SnapshotLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snapshot_last_success_timestamp",
			Help: "Unix timestamp of the last successful snapshot load",
		},
		[]string{"snapshot"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of explicit cache invalidations",
		},
		[]string{"cache_type"},
	)

	// Scheduler Metrics
	SchedulerJobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "outcome"},
	)

	SchedulerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_job_duration_seconds",
			Help:    "Duration of scheduled job runs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
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

// RecordVote records a vote insert attempt.
func RecordVote(kind string, err error) {
	VotesRecorded.WithLabelValues(kind, outcome(err)).Inc()
}

// RecordWeightCall records one weight increment call.
func RecordWeightCall(target string, err error) {
	WeightCalls.WithLabelValues(target, outcome(err)).Inc()
}

// RecordRemoteCall records the duration and outcome of a remote call.
func RecordRemoteCall(backend, op string, duration time.Duration, err error) {
	RemoteCallDuration.WithLabelValues(backend, op).Observe(duration.Seconds())
	if err != nil {
		RemoteCallErrors.WithLabelValues(backend, op).Inc()
	}
}

// SetRemoteHealthy records the result of a health probe.
func SetRemoteHealthy(healthy bool) {
	if healthy {
		RemoteHealthy.Set(1)
	} else {
		RemoteHealthy.Set(0)
	}
}

// RecordSnapshotLoad records a snapshot load attempt. A missing file is
// counted separately from a failure.
func RecordSnapshotLoad(snapshot string, items int, missing bool, err error) {
	switch {
	case err != nil:
		SnapshotReloads.WithLabelValues(snapshot, OutcomeFailure).Inc()
	case missing:
		SnapshotReloads.WithLabelValues(snapshot, "missing").Inc()
		SnapshotItems.WithLabelValues(snapshot).Set(float64(items))
	default:
		SnapshotReloads.WithLabelValues(snapshot, OutcomeSuccess).Inc()
		SnapshotItems.WithLabelValues(snapshot).Set(float64(items))
		SnapshotLastSuccess.WithLabelValues(snapshot).Set(float64(time.Now().Unix()))
	}
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordJobRun records a scheduled job run.
func RecordJobRun(job string, duration time.Duration, err error) {
	SchedulerJobRuns.WithLabelValues(job, outcome(err)).Inc()
	SchedulerJobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
