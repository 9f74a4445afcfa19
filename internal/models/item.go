// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package models

import (
	"time"
)

// Item is a trend-feed entry as stored in the remote items table.
// Items are created by the ingestion job and are read-only here.
//
// PubDate is kept as the text the ingestion job wrote; it is not always
// zone-qualified.
type Item struct {
	ID           ID       `json:"id"`
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Source       string   `json:"source,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Tags         []string `json:"tags"`
	PubDate      string   `json:"pub_date,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	ClusterScore float64  `json:"cluster_score,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`
}

// FeedItem is one entry of the precomputed daily feed snapshot (data.json).
type FeedItem struct {
	Item
	PersonalizedScore float64 `json:"personalized_score"`
}

// SavedItem is an item the user kept, with the time of the keep vote.
type SavedItem struct {
	Item
	VotedAt time.Time `json:"voted_at"`
}

// Vote is an append-only vote record.
type Vote struct {
	ItemID   ID        `json:"item_id"`
	VoteType string    `json:"vote_type"`
	VotedAt  time.Time `json:"voted_at"`
}
