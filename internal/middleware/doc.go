// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: request and correlation IDs for log tracing
  - PrometheusMetrics: request count, latency and in-flight gauges labelled
    by chi route pattern
  - Compression: gzip for the read-only feed, weekly and saved routes

All middleware uses the func(http.Handler) http.Handler shape so it can be
passed straight to chi's Use and With.
*/
package middleware
