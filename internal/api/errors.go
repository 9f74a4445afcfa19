// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/models"
	"github.com/tomtom215/keepskip/internal/validation"
	"github.com/tomtom215/keepskip/internal/vote"
)

// API error codes.
const (
	ErrCodeValidation         = validation.CodeValidationError
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeRemote             = "REMOTE_ERROR"
	ErrCodeWeightPartial      = "WEIGHT_UPDATE_PARTIAL"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeNotImplemented     = "NOT_IMPLEMENTED"
)

// voteErrorResponse maps a failed vote to a status code and API error.
// res tells whether the vote row was stored before the failure.
func voteErrorResponse(res vote.Result, err error) (int, *models.APIError) {
	var partial *vote.PartialError

	switch {
	case errors.As(err, &partial):
		return http.StatusMultiStatus, &models.APIError{
			Code:    ErrCodeWeightPartial,
			Message: "Vote recorded but some preference weight updates failed",
			Details: map[string]interface{}{
				"vote_recorded": true,
				"attempted":     partial.Attempted,
				"failed":        partial.Failed,
			},
		}

	case errors.Is(err, vote.ErrInvalidKind), errors.Is(err, vote.ErrEmptyItemID):
		return http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: err.Error(),
		}

	case errors.Is(err, datasvc.ErrCircuitOpen):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeServiceUnavailable,
			Message: "Remote data service is temporarily unavailable",
			Details: map[string]interface{}{"vote_recorded": res.Recorded},
		}

	case errors.Is(err, datasvc.ErrNotFound):
		msg := "Item not found"
		if res.Recorded {
			msg = "Item not found; the vote was recorded but no preference weights were applied"
		}
		return http.StatusNotFound, &models.APIError{
			Code:    ErrCodeNotFound,
			Message: msg,
			Details: map[string]interface{}{"vote_recorded": res.Recorded},
		}

	default:
		return http.StatusBadGateway, &models.APIError{
			Code:    ErrCodeRemote,
			Message: "Remote data service request failed",
			Details: map[string]interface{}{"vote_recorded": res.Recorded},
		}
	}
}

// remoteErrorResponse maps a failed read from the remote data service.
func remoteErrorResponse(err error) (int, *models.APIError) {
	if errors.Is(err, datasvc.ErrCircuitOpen) {
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeServiceUnavailable,
			Message: "Remote data service is temporarily unavailable",
		}
	}
	return http.StatusBadGateway, &models.APIError{
		Code:    ErrCodeRemote,
		Message: "Remote data service request failed",
	}
}
