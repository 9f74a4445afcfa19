// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package validation provides request validation using go-playground/validator v10.

A single validator instance is built lazily with WithRequiredStructEnabled
and shared by all handlers; validator caches struct metadata, so reusing it
keeps validation cheap.

Field names in errors come from json tags, so a failed vote body reports
"kind" rather than "Kind".

# Custom validators

  - itemid: non-empty, at most 128 bytes, no whitespace or control
    characters

# Usage

	type VoteRequest struct {
	    Kind string `json:"kind" validate:"required,oneof=keep skip"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
	    return
	}

ValidateItemID checks identifiers that arrive in the URL path rather than
in a struct.
*/
package validation
