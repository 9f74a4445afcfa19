// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

// Package datasvctest provides an in-memory datasvc backend for tests.
package datasvctest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/models"
)

// Fake is a mutex-guarded in-memory implementation of every datasvc
// interface. Failures can be injected per operation and per key.
type Fake struct {
	mu sync.Mutex

	items       map[models.ID]models.Item
	votes       []models.Vote
	tagWeights  map[string]float64
	pairWeights map[[2]string]float64

	tagCalls   []datasvc.WeightOp
	pairCalls  []datasvc.WeightOp
	batchCalls [][]datasvc.WeightOp

	insertErr error
	tagsErr   error
	batchErr  error
	pingErr   error
	listErr   error
	tagErrs   map[string]error
	pairErrs  map[[2]string]error

	now func() time.Time
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		items:       make(map[models.ID]models.Item),
		tagWeights:  make(map[string]float64),
		pairWeights: make(map[[2]string]float64),
		tagErrs:     make(map[string]error),
		pairErrs:    make(map[[2]string]error),
		now:         time.Now,
	}
}

// AddItem stores an item so GetItemTags can find it.
func (f *Fake) AddItem(item models.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.ID] = item
}

// FailInsert makes InsertVote return err.
func (f *Fake) FailInsert(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertErr = err
}

// FailGetTags makes GetItemTags return err for every item.
func (f *Fake) FailGetTags(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagsErr = err
}

// FailTag makes IncrementTagWeight return err for one tag.
func (f *Fake) FailTag(tag string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagErrs[tag] = err
}

// FailPair makes IncrementPairWeight return err for one pair.
func (f *Fake) FailPair(a, b string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairErrs[[2]string{a, b}] = err
}

// FailBatch makes ApplyWeights return err without applying anything.
func (f *Fake) FailBatch(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchErr = err
}

// FailPing makes Ping return err.
func (f *Fake) FailPing(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

// FailList makes ListKeptItems return err.
func (f *Fake) FailList(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

// InsertVote implements datasvc.Service.
func (f *Fake) InsertVote(ctx context.Context, itemID models.ID, voteType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.votes = append(f.votes, models.Vote{ItemID: itemID, VoteType: voteType, VotedAt: f.now()})
	return nil
}

// GetItemTags implements datasvc.Service.
func (f *Fake) GetItemTags(ctx context.Context, itemID models.ID) (datasvc.ItemTags, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tagsErr != nil {
		return datasvc.ItemTags{}, f.tagsErr
	}
	item, ok := f.items[itemID]
	if !ok {
		return datasvc.ItemTags{}, datasvc.ErrNotFound
	}
	return datasvc.ItemTags{Tags: append([]string(nil), item.Tags...)}, nil
}

// IncrementTagWeight implements datasvc.Service.
func (f *Fake) IncrementTagWeight(ctx context.Context, tagName string, delta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagCalls = append(f.tagCalls, datasvc.TagOp(tagName, delta))
	if err := f.tagErrs[tagName]; err != nil {
		return err
	}
	f.tagWeights[tagName] += delta
	return nil
}

// IncrementPairWeight implements datasvc.Service.
func (f *Fake) IncrementPairWeight(ctx context.Context, tagA, tagB string, delta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairCalls = append(f.pairCalls, datasvc.PairOp(tagA, tagB, delta))
	if err := f.pairErrs[[2]string{tagA, tagB}]; err != nil {
		return err
	}
	f.pairWeights[[2]string{tagA, tagB}] += delta
	return nil
}

// ApplyWeights implements datasvc.BatchApplier. Either every op is
// applied or none is.
func (f *Fake) ApplyWeights(ctx context.Context, ops []datasvc.WeightOp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls = append(f.batchCalls, append([]datasvc.WeightOp(nil), ops...))
	if f.batchErr != nil {
		return f.batchErr
	}
	for _, op := range ops {
		switch op.Target {
		case datasvc.TargetTag:
			f.tagWeights[op.TagA] += op.Delta
		case datasvc.TargetPair:
			f.pairWeights[[2]string{op.TagA, op.TagB}] += op.Delta
		}
	}
	return nil
}

// Ping implements datasvc.Pinger.
func (f *Fake) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

// ListKeptItems implements datasvc.SavedItemsReader.
func (f *Fake) ListKeptItems(ctx context.Context, limit int) ([]models.SavedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}

	seen := make(map[models.ID]bool)
	var saved []models.SavedItem
	for i := len(f.votes) - 1; i >= 0; i-- {
		v := f.votes[i]
		if v.VoteType != "keep" || seen[v.ItemID] {
			continue
		}
		item, ok := f.items[v.ItemID]
		if !ok {
			continue
		}
		seen[v.ItemID] = true
		saved = append(saved, models.SavedItem{Item: item, VotedAt: v.VotedAt})
	}
	sort.SliceStable(saved, func(i, j int) bool {
		return saved[i].VotedAt.After(saved[j].VotedAt)
	})
	if limit > 0 && len(saved) > limit {
		saved = saved[:limit]
	}
	return saved, nil
}

// Votes returns a copy of the recorded votes.
func (f *Fake) Votes() []models.Vote {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Vote(nil), f.votes...)
}

// TagCalls returns every IncrementTagWeight call, failed ones included.
func (f *Fake) TagCalls() []datasvc.WeightOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]datasvc.WeightOp(nil), f.tagCalls...)
}

// PairCalls returns every IncrementPairWeight call, failed ones included.
func (f *Fake) PairCalls() []datasvc.WeightOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]datasvc.WeightOp(nil), f.pairCalls...)
}

// BatchCalls returns the op lists passed to ApplyWeights.
func (f *Fake) BatchCalls() [][]datasvc.WeightOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]datasvc.WeightOp(nil), f.batchCalls...)
}

// TagWeight returns the accumulated weight of a tag.
func (f *Fake) TagWeight(tag string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tagWeights[tag]
}

// PairWeight returns the accumulated weight of a canonical pair.
func (f *Fake) PairWeight(a, b string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pairWeights[[2]string{a, b}]
}

// CoreOnly hides the optional interfaces of a Service.
type CoreOnly struct {
	datasvc.Service
}

var (
	_ datasvc.Service          = (*Fake)(nil)
	_ datasvc.BatchApplier     = (*Fake)(nil)
	_ datasvc.SavedItemsReader = (*Fake)(nil)
	_ datasvc.Pinger           = (*Fake)(nil)
)
