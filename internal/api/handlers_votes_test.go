// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package api

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/vote"
)

func TestVote_KeepAppliesTagsAndPairs(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/api/v1/items/1/votes", `{"kind":"keep"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if resp.Status != statusSuccess {
		t.Errorf("status field = %q, want %q", resp.Status, statusSuccess)
	}
	var res vote.Result
	decodeData(t, resp, &res)
	if !res.Recorded || res.TagCalls != 2 || res.PairCalls != 1 || res.Failed != 0 {
		t.Errorf("result = %+v, want recorded with 2 tag calls and 1 pair call", res)
	}

	if got := env.fake.TagWeight("retro"); got != 0.2 {
		t.Errorf("retro weight = %v, want 0.2", got)
	}
	if got := env.fake.PairWeight("neon", "retro"); got != 0.3 {
		t.Errorf("pair weight = %v, want 0.3", got)
	}
	if votes := env.fake.Votes(); len(votes) != 1 || votes[0].VoteType != "keep" {
		t.Errorf("votes = %+v, want one keep", votes)
	}
}

func TestVote_SkipHidesItemFromFeed(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/api/v1/items/2/votes", `{"kind":"skip"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if got := env.fake.TagWeight("neon"); got != -0.1 {
		t.Errorf("neon weight = %v, want -0.1", got)
	}
	if calls := env.fake.PairCalls(); len(calls) != 0 {
		t.Errorf("skip produced %d pair calls, want 0", len(calls))
	}

	for _, item := range env.store.Feed(0) {
		if item.ID == "2" {
			t.Error("skipped item still present in feed")
		}
	}
}

func TestVote_PartialWeightFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	env.fake.FailTag("neon", errors.New("boom"))

	rec := env.do(t, http.MethodPost, "/api/v1/items/1/votes", `{"kind":"keep"}`)
	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, want 207; body %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if resp.Status != statusPartial {
		t.Errorf("status field = %q, want %q", resp.Status, statusPartial)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeWeightPartial {
		t.Fatalf("error = %+v, want %s", resp.Error, ErrCodeWeightPartial)
	}
	if resp.Error.Details["failed"] != float64(1) {
		t.Errorf("failed detail = %v, want 1", resp.Error.Details["failed"])
	}
	if env.fake.TagWeight("retro") != 0.2 {
		t.Error("successful tag update should not be rolled back")
	}
}

func TestVote_UnknownItemStillRecordsVote(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/api/v1/items/999/votes", `{"kind":"keep"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Details["vote_recorded"] != true {
		t.Errorf("error = %+v, want vote_recorded=true", resp.Error)
	}
	if len(env.fake.Votes()) != 1 {
		t.Error("expected the vote row to be stored")
	}
	if len(env.fake.TagCalls()) != 0 {
		t.Error("expected no weight updates for an unknown item")
	}
}

func TestVote_RemoteFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		insertErr  error
		wantStatus int
		wantCode   string
	}{
		{"remote error", errors.New("connection reset"), http.StatusBadGateway, ErrCodeRemote},
		{"circuit open", datasvc.ErrCircuitOpen, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, envOptions{})
			env.fake.FailInsert(tt.insertErr)

			rec := env.do(t, http.MethodPost, "/api/v1/items/1/votes", `{"kind":"keep"}`)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeResponse(t, rec)
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want %s", resp.Error, tt.wantCode)
			}
			if resp.Error.Details["vote_recorded"] != false {
				t.Errorf("vote_recorded = %v, want false", resp.Error.Details["vote_recorded"])
			}
			if len(env.fake.TagCalls()) != 0 {
				t.Error("no weight calls expected after a failed record")
			}
		})
	}
}

func TestVote_BadRequests(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name string
		path string
		body string
	}{
		{"missing kind", "/api/v1/items/1/votes", `{}`},
		{"unknown kind", "/api/v1/items/1/votes", `{"kind":"love"}`},
		{"wrong case", "/api/v1/items/1/votes", `{"kind":"Keep"}`},
		{"empty body", "/api/v1/items/1/votes", ""},
		{"malformed json", "/api/v1/items/1/votes", `{"kind":`},
		{"oversized body", "/api/v1/items/1/votes", `{"kind":"keep","pad":"` + strings.Repeat("x", maxVoteBodyBytes) + `"}`},
		{"item id too long", "/api/v1/items/" + strings.Repeat("9", 200) + "/votes", `{"kind":"keep"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
			resp := decodeResponse(t, rec)
			if resp.Error == nil || resp.Error.Code != ErrCodeValidation {
				t.Errorf("error = %+v, want %s", resp.Error, ErrCodeValidation)
			}
		})
	}

	if n := len(env.fake.Votes()); n != 0 {
		t.Errorf("rejected requests stored %d votes", n)
	}
}

func TestVote_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodGet, "/api/v1/items/1/votes", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestVote_RateLimited(t *testing.T) {
	t.Parallel()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	env := newTestEnv(t, envOptions{middleware: cfg})

	first := env.do(t, http.MethodPost, "/api/v1/items/1/votes", `{"kind":"keep"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", first.Code)
	}

	second := env.do(t, http.MethodPost, "/api/v1/items/1/votes", `{"kind":"keep"}`)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", second.Code)
	}
	resp := decodeResponse(t, second)
	if resp.Error == nil || resp.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v, want %s", resp.Error, ErrCodeTooManyRequests)
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodGet, "/api/v1/nothing-here", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want %s", resp.Error, ErrCodeNotFound)
	}
}

func TestVoteErrorResponse_NotFoundMessage(t *testing.T) {
	t.Parallel()

	_, before := voteErrorResponse(vote.Result{}, datasvc.ErrNotFound)
	_, after := voteErrorResponse(vote.Result{Recorded: true}, datasvc.ErrNotFound)

	if before.Message == after.Message {
		t.Error("expected different messages for recorded and unrecorded votes")
	}
	if !strings.Contains(after.Message, "recorded") {
		t.Errorf("message %q should mention the recorded vote", after.Message)
	}
}
