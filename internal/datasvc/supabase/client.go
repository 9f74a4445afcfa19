// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package supabase implements the remote data service on top of the Supabase
PostgREST API.

Endpoints used:
  - POST /rest/v1/votes                          insert_vote
  - GET  /rest/v1/items?id=eq.X&select=tags       get_item_tags
  - POST /rest/v1/rpc/increment_tag_weight        {tag_name, delta}
  - POST /rest/v1/rpc/increment_pair_weight       {tag_a, tag_b, delta}
  - POST /rest/v1/rpc/apply_weight_batch          {ops}
  - GET  /rest/v1/votes?vote_type=eq.keep         saved items (then items?id=in.(...))

Every request carries the project key as both the apikey header and a
bearer token. Outbound requests are throttled by a token bucket and, when
wrapped in CircuitBreakerClient, guarded by a circuit breaker.
*/
package supabase

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/keepskip/internal/datasvc"
)

// backendName labels metrics and logs.
const backendName = "supabase"

// Config configures a Client.
type Config struct {
	URL               string  // project base URL, e.g. https://xyz.supabase.co
	APIKey            string  // anon/publishable key
	Schema            string  // optional Accept-Profile/Content-Profile
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables throttling
	Burst             int

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to PostgREST. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	schema     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var (
	_ datasvc.Service          = (*Client)(nil)
	_ datasvc.SavedItemsReader = (*Client)(nil)
	_ datasvc.BatchApplier     = (*Client)(nil)
	_ datasvc.Pinger           = (*Client)(nil)
)

// NewClient creates a PostgREST client.
func NewClient(cfg Config) *Client {
	// Normalize URL (remove trailing slash)
	baseURL := strings.TrimSuffix(cfg.URL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		schema:     cfg.Schema,
		httpClient: httpClient,
		limiter:    limiter,
	}
}
