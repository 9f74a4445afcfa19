// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package services

import (
	"context"

	"github.com/tomtom215/keepskip/internal/logging"
)

// SnapshotReloader matches (*snapshot.Store).Reload.
type SnapshotReloader interface {
	Reload(ctx context.Context) error
}

// SnapshotService loads the feed and weekly snapshots when it starts and
// again whenever Trigger is called, for example on SIGHUP.
//
// A failed load is logged rather than returned: the store keeps its
// previous copy, and restarting the service would not fix a bad file.
type SnapshotService struct {
	store   SnapshotReloader
	trigger chan struct{}
	name    string
}

// NewSnapshotService creates the wrapper.
func NewSnapshotService(store SnapshotReloader) *SnapshotService {
	return &SnapshotService{
		store:   store,
		trigger: make(chan struct{}, 1),
		name:    "snapshot-loader",
	}
}

// Trigger requests a reload. Requests made while one is pending collapse
// into a single reload.
func (s *SnapshotService) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Serve implements suture.Service.
func (s *SnapshotService) Serve(ctx context.Context) error {
	s.reload(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.trigger:
			s.reload(ctx, "signal")
		}
	}
}

func (s *SnapshotService) reload(ctx context.Context, reason string) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	if err := s.store.Reload(ctx); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("reason", reason).Msg("Snapshot reload failed, serving previous data")
		return
	}
	logging.Ctx(ctx).Info().Str("reason", reason).Msg("Snapshots reloaded")
}

func (s *SnapshotService) String() string {
	return s.name
}
