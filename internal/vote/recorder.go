// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package vote

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/logging"
	"github.com/tomtom215/keepskip/internal/metrics"
	"github.com/tomtom215/keepskip/internal/models"
)

// ErrEmptyItemID is returned when a vote names no item.
var ErrEmptyItemID = errors.New("item id is required")

// Recorder appends vote records to the data service.
type Recorder struct {
	svc datasvc.Service
}

// NewRecorder creates a Recorder bound to svc.
func NewRecorder(svc datasvc.Service) *Recorder {
	return &Recorder{svc: svc}
}

// RecordVote appends one vote. Remote failures are returned as-is, wrapped,
// and never retried.
func (r *Recorder) RecordVote(ctx context.Context, itemID models.ID, kind Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if itemID == "" {
		return ErrEmptyItemID
	}

	err := r.svc.InsertVote(ctx, itemID, kind.String())
	metrics.RecordVote(kind.String(), err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("item_id", itemID.String()).
			Str("kind", kind.String()).
			Msg("Failed to record vote")
		return fmt.Errorf("insert vote: %w", err)
	}

	logging.Ctx(ctx).Debug().
		Str("item_id", itemID.String()).
		Str("kind", kind.String()).
		Msg("Vote recorded")
	return nil
}
