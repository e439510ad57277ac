// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recorder

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/ledger-ballot/models"
)

// IntentGrace is how long past its expiry an intent is kept before a missing
// transaction is taken as never included. It covers ledger close latency.
const IntentGrace = 10 * time.Second

// Resolution is the outcome of checking a vote intent against the ledger.
type Resolution int

const (
	// Pending means the transaction may still be included.
	Pending Resolution = iota
	// Voted means the transaction succeeded and the voter is now marked.
	Voted
	// Discarded means the transaction can no longer succeed.
	Discarded
)

func (r Resolution) String() string {
	switch r {
	case Voted:
		return "voted"
	case Discarded:
		return "discarded"
	default:
		return "pending"
	}
}

// ResolveIntent settles one intent under its election's writer lock.
func (r *Recorder) ResolveIntent(ctx context.Context, in models.VoteIntent) (Resolution, error) {
	unlock, err := r.locks.Lock(ctx, in.AdminID)
	if err != nil {
		return Pending, err
	}
	defer unlock()

	// The intent may have been settled while waiting for the lock
	current, found, err := r.store.FindIntent(ctx, in.AdminID, in.VoterID)
	if err != nil {
		return Pending, err
	}
	if !found || current.TxHash != in.TxHash {
		return Discarded, nil
	}
	return r.resolve(ctx, current)
}

// resolve must be called with the election's lock held.
func (r *Recorder) resolve(ctx context.Context, in models.VoteIntent) (Resolution, error) {
	rec, found, err := r.ledger.Transaction(ctx, in.TxHash)
	if err != nil {
		return Pending, err
	}

	switch {
	case found && rec.Successful:
		flipped, err := r.store.CompleteVote(ctx, in.AdminID, in.VoterID, in.TxHash)
		if err != nil {
			return Pending, err
		}
		slog.Info("vote intent resolved as recorded",
			"admin_id", in.AdminID, "voter_id", in.VoterID, "tx_hash", in.TxHash, "flag_set", flipped)
		return Voted, nil

	case found:
		// Included but failed; the sequence is consumed and no vote was cast
		if err := r.store.DeleteIntent(ctx, in.AdminID, in.VoterID, in.TxHash); err != nil {
			return Pending, err
		}
		return Discarded, nil

	case r.now().After(in.ExpiresAt.Add(IntentGrace)):
		if err := r.store.DeleteIntent(ctx, in.AdminID, in.VoterID, in.TxHash); err != nil {
			return Pending, err
		}
		slog.Info("expired vote intent discarded", "admin_id", in.AdminID, "voter_id", in.VoterID, "tx_hash", in.TxHash)
		return Discarded, nil
	}

	return Pending, nil
}

// Summary counts the outcomes of a resolution pass.
type Summary struct {
	Voted     int
	Discarded int
	Pending   int
	Failed    int
}

// ResolvePending settles every stored intent it can. Per-intent failures are
// logged and counted; only failing to list intents is returned.
func (r *Recorder) ResolvePending(ctx context.Context) (Summary, error) {
	var sum Summary

	intents, err := r.store.ListIntents(ctx)
	if err != nil {
		return sum, err
	}

	for _, in := range intents {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		res, err := r.ResolveIntent(ctx, in)
		if err != nil {
			slog.Warn("failed to resolve vote intent",
				"admin_id", in.AdminID, "voter_id", in.VoterID, "tx_hash", in.TxHash, "error", err)
			sum.Failed++
			continue
		}
		switch res {
		case Voted:
			sum.Voted++
		case Discarded:
			sum.Discarded++
		default:
			sum.Pending++
		}
	}

	return sum, nil
}
