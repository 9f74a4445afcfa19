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
	"github.com/tomtom215/keepskip/internal/models"
)

// Result describes a processed vote.
type Result struct {
	ItemID    models.ID `json:"item_id"`
	Kind      Kind      `json:"kind"`
	Tags      []string  `json:"tags"`
	TagCalls  int       `json:"tag_calls"`
	PairCalls int       `json:"pair_calls"`
	Failed    int       `json:"failed_calls"`
	Batched   bool      `json:"batched"`
	// Recorded is true once the vote row has been stored, even if the
	// weight update that follows fails.
	Recorded bool `json:"recorded"`
}

// Hook is called after a vote has been recorded, whether or not the weight
// update succeeded.
type Hook func(ctx context.Context, res Result)

// Service runs the full vote flow: record, fetch tags, apply weights.
type Service struct {
	data     datasvc.Service
	recorder *Recorder
	updater  *Updater
	hooks    []Hook
}

// NewService wires a Recorder and an Updater around one data service.
func NewService(data datasvc.Service, cfg UpdaterConfig) *Service {
	return &Service{
		data:     data,
		recorder: NewRecorder(data),
		updater:  NewUpdater(data, cfg),
	}
}

// OnVote registers a hook. Hooks must be registered before Vote is called
// concurrently.
func (s *Service) OnVote(h Hook) {
	s.hooks = append(s.hooks, h)
}

// Updater returns the weight updater.
func (s *Service) Updater() *Updater {
	return s.updater
}

// Vote records the vote and applies its weights.
//
// When recording fails nothing else happens and the error is returned.
// After a successful record, a tag lookup failure (ErrNotFound included) or
// a *PartialError from the weight update is returned together with the
// Result describing what was done.
//
// Once the vote is recorded the rest of the flow no longer follows ctx
// cancellation, so a caller that goes away does not leave a stored vote
// without its weights. Each remote call stays bounded by the data
// service's own timeout.
func (s *Service) Vote(ctx context.Context, itemID models.ID, kind Kind) (Result, error) {
	res := Result{ItemID: itemID, Kind: kind, Tags: []string{}}

	if err := s.recorder.RecordVote(ctx, itemID, kind); err != nil {
		return res, err
	}
	res.Recorded = true
	ctx = context.WithoutCancel(ctx)
	defer s.fire(ctx, &res)

	item, err := s.data.GetItemTags(ctx, itemID)
	if err != nil {
		event := logging.Ctx(ctx).Error()
		if errors.Is(err, datasvc.ErrNotFound) {
			event = logging.Ctx(ctx).Warn()
		}
		event.Err(err).Str("item_id", itemID.String()).Msg("Vote recorded but item tags unavailable, no weights applied")
		return res, fmt.Errorf("get item tags: %w", err)
	}
	if item.Tags != nil {
		res.Tags = item.Tags
	}

	applied, err := s.updater.ApplyVote(ctx, item.Tags, kind)
	res.TagCalls = applied.TagCalls
	res.PairCalls = applied.PairCalls
	res.Failed = applied.Failed
	res.Batched = applied.Batched
	if err != nil {
		return res, err
	}

	logging.Ctx(ctx).Info().
		Str("item_id", itemID.String()).
		Str("kind", kind.String()).
		Int("tag_calls", res.TagCalls).
		Int("pair_calls", res.PairCalls).
		Msg("Vote applied")
	return res, nil
}

func (s *Service) fire(ctx context.Context, res *Result) {
	for _, h := range s.hooks {
		h(ctx, *res)
	}
}
