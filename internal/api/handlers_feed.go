// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/keepskip/internal/models"
)

// Feed handles GET /api/v1/feed?limit=N. Items come back in snapshot
// order, leaving out items skipped while this process has been running.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	limit, apiErr := parseLimit(r, h.cfg.FeedLimit, h.cfg.FeedLimit)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	items := h.snapshots.Feed(limit)
	count := len(items)

	setLastModified(w, h.snapshots.FeedSnapshot().LoadedAt)
	respondSuccess(w, items, models.Metadata{Count: &count})
}

// Weekly handles GET /api/v1/weekly.
func (h *Handler) Weekly(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshots.Weekly()

	setLastModified(w, snap.LoadedAt)
	respondSuccess(w, snap.Report, models.Metadata{})
}

// Saved handles GET /api/v1/saved?limit=N: items with a keep vote, newest
// vote first. Results are cached until the next keep vote or TTL expiry.
func (h *Handler) Saved(w http.ResponseWriter, r *http.Request) {
	if h.saved == nil {
		respondError(w, http.StatusNotImplemented, ErrCodeNotImplemented,
			"Saved items are not supported by the configured backend", nil)
		return
	}

	limit, apiErr := parseLimit(r, h.cfg.SavedLimit, h.cfg.SavedLimit)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	start := time.Now()
	key := "saved:" + strconv.Itoa(limit)

	var gen uint64
	if h.savedCache != nil {
		gen = h.savedCache.Generation()
		if cached, ok := h.savedCache.Get(key); ok {
			if items, ok := cached.([]models.SavedItem); ok {
				count := len(items)
				respondSuccess(w, items, models.Metadata{Cached: true, Count: &count})
				return
			}
		}
	}

	items, err := h.saved.ListKeptItems(r.Context(), limit)
	if err != nil {
		status, apiErr := remoteErrorResponse(err)
		respondAPIError(w, status, apiErr, err)
		return
	}
	if items == nil {
		items = []models.SavedItem{}
	}

	// A keep vote that landed during the fetch invalidated the cache; the
	// list may predate it, so it is served but not stored.
	if h.savedCache != nil {
		h.savedCache.SetIfGeneration(key, items, gen)
	}

	count := len(items)
	respondSuccess(w, items, models.Metadata{
		Count:       &count,
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}
