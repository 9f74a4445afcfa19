// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package vote

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/logging"
	"github.com/tomtom215/keepskip/internal/metrics"
)

// PartialError reports weight calls that failed while others may have
// succeeded. Successful calls are not rolled back.
type PartialError struct {
	Attempted int
	Failed    int
	Err       error // errors.Join of every failure
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%d of %d weight updates failed: %v", e.Failed, e.Attempted, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// UpdaterConfig configures an Updater.
type UpdaterConfig struct {
	Policy Policy

	// Concurrency bounds parallel remote calls per vote. 1 is sequential.
	Concurrency int

	// Batched sends all ops in one call when the backend supports it.
	Batched bool
}

// Applied counts the weight operations dispatched for one vote.
type Applied struct {
	TagCalls  int
	PairCalls int
	Failed    int
	Batched   bool
}

// Updater derives weight deltas from a vote and dispatches them.
type Updater struct {
	svc         datasvc.Service
	batch       datasvc.BatchApplier
	policy      Policy
	concurrency int
}

// NewUpdater creates an Updater. Batched mode silently falls back to
// independent calls when svc does not implement datasvc.BatchApplier.
func NewUpdater(svc datasvc.Service, cfg UpdaterConfig) *Updater {
	u := &Updater{
		svc:         svc,
		policy:      cfg.Policy,
		concurrency: cfg.Concurrency,
	}
	if u.concurrency < 1 {
		u.concurrency = 1
	}
	if cfg.Batched {
		if b, ok := svc.(datasvc.BatchApplier); ok {
			u.batch = b
		} else {
			logging.Warn().Msg("Batched weight mode requested but backend has no batch support, using independent calls")
		}
	}
	return u
}

// Batched reports whether votes are applied as one batch call.
func (u *Updater) Batched() bool {
	return u.batch != nil
}

// ApplyVote issues the tag and pair weight updates for a vote on an item
// carrying tags. A nil tag list is treated as empty.
//
// In independent mode every call is attempted even when others fail; the
// failures are returned as a *PartialError.
func (u *Updater) ApplyVote(ctx context.Context, tags []string, kind Kind) (Applied, error) {
	if !kind.Valid() {
		return Applied{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	ops := u.policy.Plan(tags, kind)
	applied := countOps(ops)
	metrics.WeightOpsPerVote.Observe(float64(len(ops)))
	if len(ops) == 0 {
		return applied, nil
	}

	if u.batch != nil {
		applied.Batched = true
		return applied, u.applyBatch(ctx, ops, &applied)
	}
	return applied, u.applyIndependent(ctx, ops, &applied)
}

func (u *Updater) applyBatch(ctx context.Context, ops []datasvc.WeightOp, applied *Applied) error {
	err := u.batch.ApplyWeights(ctx, ops)
	metrics.RecordWeightCall("batch", err)
	if err == nil {
		return nil
	}

	applied.Failed = len(ops)
	logging.Ctx(ctx).Warn().Err(err).
		Int("ops", len(ops)).
		Msg("Batched weight update failed")
	return &PartialError{
		Attempted: len(ops),
		Failed:    len(ops),
		Err:       fmt.Errorf("apply weight batch: %w", err),
	}
}

func (u *Updater) applyIndependent(ctx context.Context, ops []datasvc.WeightOp, applied *Applied) error {
	errs := make([]error, len(ops))

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, op := range ops {
		g.Go(func() error {
			errs[i] = u.dispatch(ctx, op)
			return nil
		})
	}
	_ = g.Wait() // goroutines never return an error

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}

	applied.Failed = failed
	return &PartialError{
		Attempted: len(ops),
		Failed:    failed,
		Err:       errors.Join(errs...),
	}
}

func (u *Updater) dispatch(ctx context.Context, op datasvc.WeightOp) error {
	var err error
	switch op.Target {
	case datasvc.TargetTag:
		err = u.svc.IncrementTagWeight(ctx, op.TagA, op.Delta)
	case datasvc.TargetPair:
		err = u.svc.IncrementPairWeight(ctx, op.TagA, op.TagB, op.Delta)
	default:
		return fmt.Errorf("unknown weight target %q", op.Target)
	}
	metrics.RecordWeightCall(op.Target, err)
	if err == nil {
		return nil
	}

	if op.Target == datasvc.TargetTag {
		logging.Ctx(ctx).Warn().Err(err).
			Str("tag", op.TagA).
			Float64("delta", op.Delta).
			Msg("Tag weight update failed")
		return fmt.Errorf("tag %q: %w", op.TagA, err)
	}
	logging.Ctx(ctx).Warn().Err(err).
		Str("tag_a", op.TagA).
		Str("tag_b", op.TagB).
		Float64("delta", op.Delta).
		Msg("Pair weight update failed")
	return fmt.Errorf("pair (%q, %q): %w", op.TagA, op.TagB, err)
}

func countOps(ops []datasvc.WeightOp) Applied {
	var a Applied
	for _, op := range ops {
		if op.Target == datasvc.TargetPair {
			a.PairCalls++
		} else {
			a.TagCalls++
		}
	}
	return a
}
