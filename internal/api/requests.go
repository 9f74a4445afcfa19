// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package api

// maxVoteBodyBytes bounds the vote request body.
const maxVoteBodyBytes = 4 << 10

// maxListLimit is the largest limit any list endpoint accepts.
const maxListLimit = 1000

// VoteRequest is the body of POST /api/v1/items/{id}/votes.
// Kind is matched exactly: "Keep" or " keep" are rejected.
type VoteRequest struct {
	Kind string `json:"kind" validate:"required,oneof=keep skip"`
}

// ListRequest holds the validated limit query parameter of the feed and
// saved endpoints.
type ListRequest struct {
	Limit int `json:"limit" validate:"min=1,max=1000"`
}
