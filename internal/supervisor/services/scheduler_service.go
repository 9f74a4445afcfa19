// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package services

import (
	"context"
	"fmt"
)

// SchedulerManager matches the Start/Stop lifecycle of
// *scheduler.Scheduler.
type SchedulerManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// SchedulerService adapts a Start/Stop scheduler to suture's Serve:
// Start, wait for ctx, then Stop. A failed Start is returned so suture
// restarts the service with backoff.
type SchedulerService struct {
	manager SchedulerManager
	name    string
}

// NewSchedulerService creates the wrapper.
//
//	sched := scheduler.New()
//	tree.AddJobService(services.NewSchedulerService(sched))
func NewSchedulerService(manager SchedulerManager) *SchedulerService {
	return &SchedulerService{
		manager: manager,
		name:    "job-scheduler",
	}
}

// Serve implements suture.Service.
func (s *SchedulerService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

func (s *SchedulerService) String() string {
	return s.name
}
