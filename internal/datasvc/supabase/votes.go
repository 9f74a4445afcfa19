// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/models"
)

// voteRow is the insert payload of the votes table.
type voteRow struct {
	ItemID   models.ID `json:"item_id"`
	VoteType string    `json:"vote_type"`
}

// keptVoteRow is one row of the saved-items vote listing.
type keptVoteRow struct {
	ItemID  models.ID `json:"item_id"`
	VotedAt string    `json:"voted_at"`
}

// InsertVote appends one row to the votes table.
func (c *Client) InsertVote(ctx context.Context, itemID models.ID, voteType string) error {
	return c.doRequest(ctx, requestConfig{
		op:     "insert_vote",
		method: http.MethodPost,
		path:   "/votes",
		body:   voteRow{ItemID: itemID, VoteType: voteType},
		prefer: "return=minimal",
	}, nil)
}

// GetItemTags reads the tags column of one item.
func (c *Client) GetItemTags(ctx context.Context, itemID models.ID) (datasvc.ItemTags, error) {
	var rows []datasvc.ItemTags
	err := c.doRequest(ctx, requestConfig{
		op:     "get_item_tags",
		method: http.MethodGet,
		path:   "/items",
		query: url.Values{
			"id":     {"eq." + itemID.String()},
			"select": {"tags"},
			"limit":  {"1"},
		},
	}, &rows)
	if err != nil {
		return datasvc.ItemTags{}, err
	}
	if len(rows) == 0 {
		return datasvc.ItemTags{}, fmt.Errorf("item %s: %w", itemID, datasvc.ErrNotFound)
	}
	return rows[0], nil
}

// ListKeptItems returns items with a keep vote, newest vote first. An item
// voted keep more than once is listed once, at its newest vote.
//
// Votes are read in pages of 2*limit rows until limit distinct items are
// found or the votes run out, so repeat votes never shorten the list.
func (c *Client) ListKeptItems(ctx context.Context, limit int) ([]models.SavedItem, error) {
	pageSize := 0
	if limit > 0 {
		pageSize = limit * 2
	}

	var votes []keptVoteRow
	for offset := 0; ; offset += pageSize {
		query := url.Values{
			"select":    {"item_id,voted_at"},
			"vote_type": {"eq.keep"},
			"order":     {"voted_at.desc,id.desc"},
		}
		if pageSize > 0 {
			query.Set("limit", strconv.Itoa(pageSize))
			query.Set("offset", strconv.Itoa(offset))
		}

		var page []keptVoteRow
		if err := c.doRequest(ctx, requestConfig{
			op:     "list_kept_votes",
			method: http.MethodGet,
			path:   "/votes",
			query:  query,
		}, &page); err != nil {
			return nil, err
		}
		votes = append(votes, page...)

		if pageSize == 0 || len(page) < pageSize {
			break
		}
		if ids, _ := dedupeVotes(votes, limit); len(ids) >= limit {
			break
		}
	}

	ids, votedAt := dedupeVotes(votes, limit)
	if len(ids) == 0 {
		return []models.SavedItem{}, nil
	}

	var items []models.Item
	if err := c.doRequest(ctx, requestConfig{
		op:     "list_saved_items",
		method: http.MethodGet,
		path:   "/items",
		query: url.Values{
			"select": {"*"},
			"id":     {"in.(" + quoteList(ids) + ")"},
		},
	}, &items); err != nil {
		return nil, err
	}

	byID := make(map[models.ID]models.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	saved := make([]models.SavedItem, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			continue // vote on an item that was since deleted
		}
		saved = append(saved, models.SavedItem{Item: item, VotedAt: votedAt[id]})
	}
	return saved, nil
}

// dedupeVotes keeps the first (newest) vote per item, up to limit ids.
func dedupeVotes(votes []keptVoteRow, limit int) ([]models.ID, map[models.ID]time.Time) {
	ids := make([]models.ID, 0, len(votes))
	votedAt := make(map[models.ID]time.Time, len(votes))
	for _, v := range votes {
		if v.ItemID == "" {
			continue
		}
		if _, seen := votedAt[v.ItemID]; seen {
			continue
		}
		votedAt[v.ItemID] = parseTimestamp(v.VotedAt)
		ids = append(ids, v.ItemID)
		if limit > 0 && len(ids) == limit {
			break
		}
	}
	return ids, votedAt
}

// quoteList renders ids for a PostgREST in.(...) filter.
func quoteList(ids []models.ID) string {
	escaper := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + escaper.Replace(id.String()) + `"`
	}
	return strings.Join(quoted, ",")
}

// timestampLayouts covers timestamptz and timestamp column renderings.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
}

// parseTimestamp returns the zero time for values it cannot parse.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
