// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reconcile keeps local voter flags consistent with the ledger.

A Sweeper runs on a cron schedule (robfig/cron):

	sweeper := reconcile.New(rec, store, engine, activityLog)
	if err := sweeper.Start("@every 1m"); err != nil { ... }
	defer sweeper.Stop()

# Intent Resolution

Each pass first settles stored vote intents through the recorder. A vote
whose submit response was lost after the ledger applied it is found by hash
and the voter's flag is set; an intent whose transaction expired without
landing is discarded so the voter may vote again.

# Audit

Elections in the Voting or Result phase are then audited: the number of vote
transactions on the Election Account is compared with the number of flagged
voters. Differences are logged and written to the activity log. Memos do not
carry voter identity, so the audit reports but never repairs.
*/
package reconcile
