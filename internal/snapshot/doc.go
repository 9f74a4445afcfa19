// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

// Package snapshot serves the data.json feed and weekly.json report written
// by the batch jobs, keeping the last good copy of each in memory.
package snapshot
