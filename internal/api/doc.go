// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package api provides the HTTP REST API for Keepskip, built on the chi router.

Endpoints:

	POST /api/v1/items/{id}/votes   record a keep/skip vote and apply weights
	GET  /api/v1/feed?limit=N       daily feed snapshot
	GET  /api/v1/weekly             weekly patterns and concepts
	GET  /api/v1/saved?limit=N      items with keep votes, newest first
	GET  /api/v1/health[/live|/ready]
	GET  /metrics                   Prometheus metrics

Every JSON response uses the models.APIResponse envelope. Errors carry a
models.APIError with one of these codes:

	VALIDATION_ERROR       400  bad item id, body or query parameter
	NOT_FOUND              404  unknown item or route
	METHOD_NOT_ALLOWED     405
	TOO_MANY_REQUESTS      429  per-IP rate limit
	REMOTE_ERROR           502  the remote data service failed
	SERVICE_UNAVAILABLE    503  circuit breaker open or remote unreachable
	WEIGHT_UPDATE_PARTIAL  207  vote stored, some weight updates failed

A 404 or 502 from the vote endpoint can follow a stored vote: the vote
row is written first and is never rolled back. The vote_recorded detail
field says which case applies.

Middleware:

  - request and correlation IDs (internal/middleware)
  - chi RealIP and Recoverer
  - go-chi/cors
  - go-chi/httprate per-IP limits, tightest on the vote route
  - Prometheus request metrics keyed by route pattern
  - gzip on the read routes
*/
package api
