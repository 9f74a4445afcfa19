// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package models defines data structures shared across Keepskip.

Key Components:

  - Item, Vote: rows of the remote items and votes tables
  - FeedItem: entry of the daily feed snapshot (data.json)
  - SavedItem: item with a keep vote, as listed by the saved endpoint
  - WeeklyReport, Pattern, Concept: the weekly snapshot (weekly.json)
  - APIResponse, APIError: the HTTP response envelope
  - HealthStatus: the health endpoint payload

Snapshots are produced by external batch jobs. Their JSON field names
match what those jobs write and must not be renamed.
*/
package models
