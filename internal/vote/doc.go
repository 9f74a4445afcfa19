// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package vote records keep/skip votes and turns them into preference weight
updates on the remote data service.

# Flow

A vote runs three sequential steps:

 1. Recorder.RecordVote appends the vote (no retry, errors propagate)
 2. the item's tags are fetched from the data service
 3. Updater.ApplyVote derives and dispatches the weight deltas

A failure in step 2 or 3 never undoes step 1.

# Weighting Policy

Each tag receives KeepTagDelta (+0.2) on keep and SkipTagDelta (-0.1) on
skip. Keep votes additionally bump every unordered pair of tag positions
(i < j) by KeepPairDelta (+0.3). Pair keys are sorted so that (a, b) and
(b, a) name the same record. Skip votes never touch pair weights.

Tags are paired by position, not by value: a tag listed twice produces a
pair with itself.

# Dispatch

In independent mode every weight call is its own remote request. Calls run
on an errgroup bounded by the configured concurrency, every call is
attempted regardless of the others, and failures are joined into a
*PartialError. Nothing is rolled back.

In batched mode, with a backend implementing datasvc.BatchApplier, all
operations are sent as one transactional call instead.

# Example

	svc := vote.NewService(client, vote.UpdaterConfig{
	    Policy:      vote.DefaultPolicy(),
	    Concurrency: 4,
	})
	res, err := svc.Vote(ctx, "42", vote.Keep)
*/
package vote
