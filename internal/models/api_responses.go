// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status field values:
//   - "success": request completed, see Data
//   - "partial": the primary write succeeded but follow-up work failed, see Data and Error
//   - "error": request failed, see Error
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"item_id": "42", "kind": "keep", "tag_calls": 2, "pair_calls": 1},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 45}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "kind must be keep or skip"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Count       *int      `json:"count,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid input parameters
//   - NOT_FOUND: the item does not exist in the remote data service
//   - REMOTE_ERROR: the remote data service rejected or failed the call
//   - WEIGHT_UPDATE_PARTIAL: the vote was stored but some weight calls failed
//   - SERVICE_UNAVAILABLE: the remote circuit breaker is open
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
