// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package vote

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/datasvc/datasvctest"
	"github.com/tomtom215/keepskip/internal/models"
)

func newFakeWithItem(id models.ID, tags ...string) *datasvctest.Fake {
	fake := datasvctest.NewFake()
	fake.AddItem(models.Item{ID: id, Title: "Item " + id.String(), Tags: tags})
	return fake
}

func TestService_VoteKeep(t *testing.T) {
	t.Parallel()

	fake := newFakeWithItem("42", "logo", "minimal")
	svc := NewService(fake, independent(4))

	res, err := svc.Vote(context.Background(), "42", Keep)
	if err != nil {
		t.Fatalf("Vote() error = %v", err)
	}
	if res.ItemID != "42" || res.Kind != Keep {
		t.Errorf("result = %+v", res)
	}
	if res.TagCalls != 2 || res.PairCalls != 1 || res.Failed != 0 {
		t.Errorf("calls = %d tag / %d pair / %d failed, want 2/1/0", res.TagCalls, res.PairCalls, res.Failed)
	}

	votes := fake.Votes()
	if len(votes) != 1 || votes[0].ItemID != "42" || votes[0].VoteType != "keep" {
		t.Errorf("votes = %+v", votes)
	}
	if fake.PairWeight("logo", "minimal") != 0.3 {
		t.Error("expected pair weight to be applied")
	}
}

func TestService_VoteSkip(t *testing.T) {
	t.Parallel()

	fake := newFakeWithItem("7", "logo")
	svc := NewService(fake, independent(1))

	res, err := svc.Vote(context.Background(), "7", Skip)
	if err != nil {
		t.Fatalf("Vote() error = %v", err)
	}
	if res.TagCalls != 1 || res.PairCalls != 0 {
		t.Errorf("calls = %d tag / %d pair, want 1/0", res.TagCalls, res.PairCalls)
	}
	if fake.TagWeight("logo") != -0.1 {
		t.Errorf("logo weight = %v, want -0.1", fake.TagWeight("logo"))
	}
}

func TestService_RecordFailureStopsFlow(t *testing.T) {
	t.Parallel()

	fake := newFakeWithItem("1", "a", "b")
	insertErr := &datasvc.ServiceError{Op: "insert_vote", StatusCode: 503, Message: "unavailable"}
	fake.FailInsert(insertErr)
	svc := NewService(fake, independent(1))

	hookCalled := false
	svc.OnVote(func(context.Context, Result) { hookCalled = true })

	res, err := svc.Vote(context.Background(), "1", Keep)
	if !errors.Is(err, insertErr) {
		t.Fatalf("error = %v, want insert error", err)
	}
	if res.Recorded {
		t.Error("Recorded should be false when the insert fails")
	}
	if len(fake.TagCalls()) != 0 {
		t.Error("weights must not be touched when the vote was not recorded")
	}
	if hookCalled {
		t.Error("hooks must not fire for unrecorded votes")
	}
}

func TestService_UnknownItemKeepsVote(t *testing.T) {
	t.Parallel()

	fake := datasvctest.NewFake()
	svc := NewService(fake, independent(1))

	res, err := svc.Vote(context.Background(), "missing", Keep)
	if !errors.Is(err, datasvc.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if len(fake.Votes()) != 1 || !res.Recorded {
		t.Error("vote should remain recorded")
	}
	if res.TagCalls != 0 || res.PairCalls != 0 {
		t.Errorf("no weights should be applied, got %+v", res)
	}
	if res.Tags == nil {
		t.Error("Tags should be an empty slice, not nil")
	}
}

func TestService_PartialFailureReturnsResult(t *testing.T) {
	t.Parallel()

	fake := newFakeWithItem("9", "a", "b", "c")
	fake.FailTag("b", errors.New("rpc failed"))
	svc := NewService(fake, independent(2))

	res, err := svc.Vote(context.Background(), "9", Keep)
	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("error = %v, want *PartialError", err)
	}
	if res.TagCalls != 3 || res.PairCalls != 3 || res.Failed != 1 {
		t.Errorf("result = %+v", res)
	}
	if len(fake.Votes()) != 1 {
		t.Error("vote must stay recorded after a partial weight failure")
	}
}

func TestService_HooksFireAfterRecord(t *testing.T) {
	t.Parallel()

	fake := newFakeWithItem("5", "a")
	fake.FailTag("a", errors.New("rpc failed"))
	svc := NewService(fake, independent(1))

	var mu sync.Mutex
	var got []Result
	svc.OnVote(func(_ context.Context, res Result) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, res)
	})

	_, _ = svc.Vote(context.Background(), "5", Skip)
	_, _ = svc.Vote(context.Background(), "unknown", Keep)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("hook calls = %d, want 2", len(got))
	}
	if got[0].ItemID != "5" || got[0].Kind != Skip || got[0].Failed != 1 {
		t.Errorf("first hook result = %+v", got[0])
	}
	if got[1].ItemID != "unknown" || got[1].Kind != Keep {
		t.Errorf("second hook result = %+v", got[1])
	}
}

func TestService_InvalidInput(t *testing.T) {
	t.Parallel()

	fake := newFakeWithItem("1", "a")
	svc := NewService(fake, independent(1))

	if _, err := svc.Vote(context.Background(), "1", Kind("")); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("error = %v, want ErrInvalidKind", err)
	}
	if _, err := svc.Vote(context.Background(), "", Keep); !errors.Is(err, ErrEmptyItemID) {
		t.Errorf("error = %v, want ErrEmptyItemID", err)
	}
	if len(fake.Votes()) != 0 {
		t.Error("invalid votes must not be recorded")
	}
}

// cancelAfterInsert ends the caller's context as soon as the vote row is
// stored, and fails any later call made on a done context.
type cancelAfterInsert struct {
	*datasvctest.Fake
	cancel context.CancelFunc
}

func (c *cancelAfterInsert) InsertVote(ctx context.Context, itemID models.ID, voteType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := c.Fake.InsertVote(ctx, itemID, voteType)
	c.cancel()
	return err
}

func (c *cancelAfterInsert) GetItemTags(ctx context.Context, itemID models.ID) (datasvc.ItemTags, error) {
	if err := ctx.Err(); err != nil {
		return datasvc.ItemTags{}, err
	}
	return c.Fake.GetItemTags(ctx, itemID)
}

func (c *cancelAfterInsert) IncrementTagWeight(ctx context.Context, tagName string, delta float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Fake.IncrementTagWeight(ctx, tagName, delta)
}

func (c *cancelAfterInsert) IncrementPairWeight(ctx context.Context, tagA, tagB string, delta float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Fake.IncrementPairWeight(ctx, tagA, tagB, delta)
}

func TestService_CallerCancelAfterRecordStillAppliesWeights(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	data := &cancelAfterInsert{Fake: newFakeWithItem("9", "logo", "minimal", "serif"), cancel: cancel}
	svc := NewService(data, independent(4))

	res, err := svc.Vote(ctx, "9", Keep)
	if err != nil {
		t.Fatalf("Vote() error = %v", err)
	}
	if ctx.Err() == nil {
		t.Fatal("caller context should be canceled after the insert")
	}
	if !res.Recorded || res.TagCalls != 3 || res.PairCalls != 3 || res.Failed != 0 {
		t.Errorf("result = %+v, want recorded with 3 tag and 3 pair calls", res)
	}
	if got := data.TagWeight("serif"); got != 0.2 {
		t.Errorf("serif weight = %v, want 0.2", got)
	}
	if got := data.PairWeight("logo", "serif"); got != 0.3 {
		t.Errorf("pair weight = %v, want 0.3", got)
	}
}

func TestService_CanceledBeforeRecord(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := &cancelAfterInsert{Fake: newFakeWithItem("9", "logo"), cancel: func() {}}
	svc := NewService(data, independent(1))

	res, err := svc.Vote(ctx, "9", Keep)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Vote() error = %v, want context.Canceled", err)
	}
	if res.Recorded || len(data.Votes()) != 0 {
		t.Errorf("nothing should be recorded: result %+v, votes %+v", res, data.Votes())
	}
}
