// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/keepskip/internal/logging"
	"github.com/tomtom215/keepskip/internal/metrics"
	"github.com/tomtom215/keepskip/internal/models"
)

// Snapshot names used for metrics and log fields.
const (
	NameFeed   = "feed"
	NameWeekly = "weekly"
)

// Config holds the snapshot file locations.
type Config struct {
	FeedPath   string
	WeeklyPath string
}

// Feed is an immutable copy of data.json as last loaded.
type Feed struct {
	Items    []models.FeedItem
	LoadedAt time.Time
	Missing  bool
}

// Weekly is an immutable copy of weekly.json as last loaded.
type Weekly struct {
	Report   models.WeeklyReport
	LoadedAt time.Time
	Missing  bool
}

// Store serves the feed and weekly snapshots written by the batch jobs.
// Reload swaps in fresh copies atomically; readers never block on a reload.
type Store struct {
	cfg Config

	feed   atomic.Pointer[Feed]
	weekly atomic.Pointer[Weekly]

	// reloadMu serializes reloads so two overlapping calls cannot publish
	// out of order.
	reloadMu sync.Mutex

	skippedMu sync.RWMutex
	skipped   map[models.ID]struct{}
}

// NewStore creates a store with empty snapshots. Call Reload to read the
// files.
func NewStore(cfg Config) *Store {
	s := &Store{
		cfg:     cfg,
		skipped: make(map[models.ID]struct{}),
	}
	s.feed.Store(&Feed{Items: []models.FeedItem{}, Missing: true})
	s.weekly.Store(&Weekly{Report: emptyReport(), Missing: true})
	return s
}

// Reload reads both snapshot files. A missing file publishes an empty
// snapshot. A malformed file leaves the previous snapshot in place and its
// error is returned; the other file is still reloaded.
func (s *Store) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	return errors.Join(s.reloadFeed(ctx), s.reloadWeekly(ctx))
}

func (s *Store) reloadFeed(ctx context.Context) error {
	var items []models.FeedItem
	missing, err := readJSON(s.cfg.FeedPath, &items)
	if err != nil {
		metrics.RecordSnapshotLoad(NameFeed, 0, false, err)
		logging.Ctx(ctx).Error().Err(err).
			Str("snapshot", NameFeed).
			Str("path", s.cfg.FeedPath).
			Msg("Failed to load snapshot, keeping previous copy")
		return fmt.Errorf("load %s snapshot: %w", NameFeed, err)
	}
	if items == nil {
		items = []models.FeedItem{}
	}

	s.feed.Store(&Feed{Items: items, LoadedAt: time.Now(), Missing: missing})
	metrics.RecordSnapshotLoad(NameFeed, len(items), missing, nil)

	event := logging.Ctx(ctx).Debug()
	if missing {
		event = logging.Ctx(ctx).Warn()
	}
	event.Str("snapshot", NameFeed).
		Str("path", s.cfg.FeedPath).
		Int("items", len(items)).
		Bool("missing", missing).
		Msg("Snapshot loaded")
	return nil
}

func (s *Store) reloadWeekly(ctx context.Context) error {
	var report models.WeeklyReport
	missing, err := readJSON(s.cfg.WeeklyPath, &report)
	if err != nil {
		metrics.RecordSnapshotLoad(NameWeekly, 0, false, err)
		logging.Ctx(ctx).Error().Err(err).
			Str("snapshot", NameWeekly).
			Str("path", s.cfg.WeeklyPath).
			Msg("Failed to load snapshot, keeping previous copy")
		return fmt.Errorf("load %s snapshot: %w", NameWeekly, err)
	}
	if report.Patterns == nil {
		report.Patterns = []models.Pattern{}
	}
	if report.Concepts == nil {
		report.Concepts = []models.Concept{}
	}

	s.weekly.Store(&Weekly{Report: report, LoadedAt: time.Now(), Missing: missing})
	metrics.RecordSnapshotLoad(NameWeekly, len(report.Patterns)+len(report.Concepts), missing, nil)

	event := logging.Ctx(ctx).Debug()
	if missing {
		event = logging.Ctx(ctx).Warn()
	}
	event.Str("snapshot", NameWeekly).
		Str("path", s.cfg.WeeklyPath).
		Int("patterns", len(report.Patterns)).
		Int("concepts", len(report.Concepts)).
		Bool("missing", missing).
		Msg("Snapshot loaded")
	return nil
}

// readJSON decodes path into dst. It reports missing=true, and leaves dst
// untouched, when the file does not exist.
func readJSON(path string, dst interface{}) (missing bool, err error) {
	if path == "" {
		return true, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return false, nil
}

// Feed returns up to limit feed items in file order, excluding items
// skipped during this process's lifetime. A limit <= 0 returns everything.
func (s *Store) Feed(limit int) []models.FeedItem {
	snap := s.feed.Load()

	s.skippedMu.RLock()
	defer s.skippedMu.RUnlock()

	out := make([]models.FeedItem, 0, len(snap.Items))
	for i := range snap.Items {
		if _, skip := s.skipped[snap.Items[i].ID]; skip {
			continue
		}
		out = append(out, snap.Items[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// FeedSnapshot returns the raw feed snapshot, skipped items included.
func (s *Store) FeedSnapshot() *Feed {
	return s.feed.Load()
}

// Weekly returns the current weekly report snapshot.
func (s *Store) Weekly() *Weekly {
	return s.weekly.Load()
}

// MarkSkipped hides an item from the served feed until the process exits.
// The next batch run drops it from data.json for good.
func (s *Store) MarkSkipped(id models.ID) {
	if id == "" {
		return
	}
	s.skippedMu.Lock()
	s.skipped[id] = struct{}{}
	s.skippedMu.Unlock()
}

// SkippedCount returns how many items are hidden from the feed.
func (s *Store) SkippedCount() int {
	s.skippedMu.RLock()
	defer s.skippedMu.RUnlock()
	return len(s.skipped)
}

func emptyReport() models.WeeklyReport {
	return models.WeeklyReport{
		Patterns: []models.Pattern{},
		Concepts: []models.Concept{},
	}
}
