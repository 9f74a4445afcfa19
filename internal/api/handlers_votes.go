// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/keepskip/internal/logging"
	"github.com/tomtom215/keepskip/internal/models"
	"github.com/tomtom215/keepskip/internal/validation"
	"github.com/tomtom215/keepskip/internal/vote"
)

// Vote handles POST /api/v1/items/{id}/votes.
//
// Responses:
//   - 200 with the vote Result when the vote and every weight update landed
//   - 207 with the Result when the vote landed but some weight calls failed
//   - 400 for a bad item id or body
//   - 404 when the item is unknown (the vote may already be stored)
//   - 502 on a remote failure, 503 while the circuit breaker is open
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rawID := chi.URLParam(r, "id")

	if verr := validation.ValidateItemID(rawID); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError(), nil)
		return
	}

	var req VoteRequest
	if err := decodeJSONBody(w, r, &req, maxVoteBodyBytes); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	kind, err := vote.ParseKind(req.Kind)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	itemID := models.ID(rawID)
	res, err := h.votes.Vote(r.Context(), itemID, kind)
	meta := models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: time.Since(start).Milliseconds(),
	}

	if err == nil {
		respondJSON(w, http.StatusOK, &models.APIResponse{
			Status:   statusSuccess,
			Data:     res,
			Metadata: meta,
		})
		return
	}

	status, apiErr := voteErrorResponse(res, err)
	logging.Ctx(r.Context()).Warn().Err(err).
		Str("item_id", sanitizeLogValue(rawID)).
		Str("kind", kind.String()).
		Bool("recorded", res.Recorded).
		Int("status", status).
		Msg("Vote did not fully apply")

	response := &models.APIResponse{
		Status:   statusError,
		Metadata: meta,
		Error:    apiErr,
	}
	if res.Recorded {
		response.Data = res
	}
	if status == http.StatusMultiStatus {
		response.Status = statusPartial
	}
	respondJSON(w, status, response)
}
