// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/keepskip/internal/cache"
	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/datasvc/datasvctest"
	"github.com/tomtom215/keepskip/internal/models"
	"github.com/tomtom215/keepskip/internal/snapshot"
	"github.com/tomtom215/keepskip/internal/vote"
)

const testFeedJSON = `[
  {"id": 1, "url": "https://t.example/1", "title": "One", "tags": ["retro", "neon"], "personalized_score": 3},
  {"id": 2, "url": "https://t.example/2", "title": "Two", "tags": ["neon"], "personalized_score": 2},
  {"id": 3, "url": "https://t.example/3", "title": "Three", "tags": [], "personalized_score": 1}
]`

const testWeeklyJSON = `{
  "patterns": [{"pattern_title": "Neon", "evidence": {"tag": "neon", "kept": 3, "seen": 4, "rate": 75, "co_tags": []}, "direction": "up", "action": "more"}],
  "concepts": [],
  "generated_at": "2026-10-12T08:00:00Z"
}`

// testEnv bundles a fully wired router over in-memory dependencies.
type testEnv struct {
	fake    *datasvctest.Fake
	store   *snapshot.Store
	cache   *cache.Cache
	handler *Handler
	server  http.Handler
}

type envOptions struct {
	data       datasvc.Service
	middleware *ChiMiddlewareConfig
	noCache    bool
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	fake := datasvctest.NewFake()
	fake.AddItem(models.Item{ID: "1", Title: "One", URL: "https://t.example/1", Tags: []string{"retro", "neon"}})
	fake.AddItem(models.Item{ID: "2", Title: "Two", URL: "https://t.example/2", Tags: []string{"neon"}})
	fake.AddItem(models.Item{ID: "3", Title: "Three", URL: "https://t.example/3", Tags: []string{}})

	var data datasvc.Service = fake
	if opts.data != nil {
		data = opts.data
	}

	dir := t.TempDir()
	feedPath := filepath.Join(dir, "data.json")
	weeklyPath := filepath.Join(dir, "weekly.json")
	if err := os.WriteFile(feedPath, []byte(testFeedJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(weeklyPath, []byte(testWeeklyJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	store := snapshot.NewStore(snapshot.Config{FeedPath: feedPath, WeeklyPath: weeklyPath})
	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("reload snapshots: %v", err)
	}

	var savedCache *cache.Cache
	if !opts.noCache {
		savedCache = cache.New("saved", time.Minute)
		t.Cleanup(savedCache.Stop)
	}

	votes := vote.NewService(data, vote.UpdaterConfig{Policy: vote.DefaultPolicy(), Concurrency: 4})
	h := NewHandler(HandlerConfig{
		Version:    "test",
		Backend:    "fake",
		WeightMode: "independent",
		FeedLimit:  100,
		SavedLimit: 200,
	}, votes, store, data, savedCache)
	votes.OnVote(h.InvalidateSaved)
	votes.OnVote(func(_ context.Context, res vote.Result) {
		if res.Recorded && res.Kind == vote.Skip {
			store.MarkSkipped(res.ItemID)
		}
	})

	mwCfg := opts.middleware
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
	}

	return &testEnv{
		fake:    fake,
		store:   store,
		cache:   savedCache,
		handler: h,
		server:  NewRouter(h, NewChiMiddleware(mwCfg)).SetupChi(),
	}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// testResponse mirrors models.APIResponse with the data left raw.
type testResponse struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Cached bool `json:"cached"`
		Count  *int `json:"count"`
	} `json:"metadata"`
	Error *models.APIError `json:"error"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) testResponse {
	t.Helper()
	var resp testResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func decodeData(t *testing.T, resp testResponse, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, dst); err != nil {
		t.Fatalf("decode data %q: %v", string(resp.Data), err)
	}
}
