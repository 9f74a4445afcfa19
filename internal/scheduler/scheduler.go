// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/keepskip/internal/logging"
	"github.com/tomtom215/keepskip/internal/metrics"
)

// ErrAlreadyStarted is returned by Start on a running scheduler.
var ErrAlreadyStarted = errors.New("scheduler already started")

// ErrUnknownJob is returned by RunNow for a name that was never added.
var ErrUnknownJob = errors.New("unknown job")

// Job is a named unit of periodic work.
type Job struct {
	Name string
	// Schedule is a standard five-field cron spec or a descriptor such
	// as "@every 5m".
	Schedule string
	// Timeout bounds a single run. Zero means no timeout.
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules. A job that is still running when
// its next tick arrives is skipped for that tick.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger

	mu      sync.Mutex
	jobs    map[string]Job
	entries map[string]cron.EntryID
	baseCtx context.Context
	cancel  context.CancelFunc
	started bool
}

// New creates a scheduler with no jobs.
func New() *Scheduler {
	logger := logging.WithComponent("scheduler")
	cl := cronLogger{logger: logger}

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		jobs:    make(map[string]Job),
		entries: make(map[string]cron.EntryID),
		baseCtx: context.Background(),
	}
}

// Add registers a job. Jobs may be added before or after Start.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" {
		return errors.New("job name is required")
	}
	if job.Run == nil {
		return fmt.Errorf("job %q: run function is required", job.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("job %q already registered", job.Name)
	}

	id, err := s.cron.AddFunc(job.Schedule, func() {
		s.mu.Lock()
		ctx := s.baseCtx
		s.mu.Unlock()
		_ = s.execute(ctx, job)
	})
	if err != nil {
		return fmt.Errorf("job %q: invalid schedule %q: %w", job.Name, job.Schedule, err)
	}

	s.jobs[job.Name] = job
	s.entries[job.Name] = id

	s.logger.Info().
		Str("job", job.Name).
		Str("schedule", job.Schedule).
		Msg("Job scheduled")
	return nil
}

// Start begins running scheduled jobs. Runs inherit ctx, so cancelling it
// aborts in-flight work.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.cron.Start()

	s.logger.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	<-s.cron.Stop().Done()

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// RunNow runs a registered job immediately on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.execute(ctx, job)
}

// Next returns the next scheduled run of a job, or the zero time when the
// scheduler is not running or the job is unknown.
func (s *Scheduler) Next(name string) time.Time {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()

	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

// Jobs returns the registered job names.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	ctx = logging.ContextWithLogger(ctx, s.logger.With().Str("job", job.Name).Logger())
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)
	metrics.RecordJobRun(job.Name, elapsed, err)

	if err != nil {
		s.logger.Error().Err(err).
			Str("job", job.Name).
			Dur("duration", elapsed).
			Msg("Job failed")
		return err
	}

	s.logger.Debug().
		Str("job", job.Name).
		Dur("duration", elapsed).
		Msg("Job completed")
	return nil
}

// cronLogger routes robfig/cron's internal logging through zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
