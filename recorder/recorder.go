// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recorder

import (
	"context"
	"log/slog"
	"time"

	"github.com/matryer/try"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/ledger"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/phase"
)

// ResultBadSeq is the ledger result code for a stale sequence number.
const ResultBadSeq = "tx_bad_seq"

// Store is the persistence the recorder needs.
type Store interface {
	FindVoter(ctx context.Context, adminID, voterID string) (models.Voter, error)
	FindCandidate(ctx context.Context, candidateID string) (models.Candidate, error)
	CompleteVote(ctx context.Context, adminID, voterID, txHash string) (bool, error)
	CreateIntent(ctx context.Context, in models.VoteIntent) error
	FindIntent(ctx context.Context, adminID, voterID string) (models.VoteIntent, bool, error)
	DeleteIntent(ctx context.Context, adminID, voterID, txHash string) error
	ListIntents(ctx context.Context) ([]models.VoteIntent, error)
}

// Ledger is satisfied by *ledger.Client.
type Ledger interface {
	LoadAccount(ctx context.Context, address string) (ledger.Account, error)
	Submit(ctx context.Context, tx ledger.SignedTransaction) (ledger.SubmitResult, error)
	Transaction(ctx context.Context, hash string) (ledger.TransactionRecord, bool, error)
}

type Config struct {
	Passphrase     string
	Policy         phase.VotePolicy
	SubmitAttempts int
}

// Recorder casts votes as ledger transactions. All ledger writes for one
// election go through a single in-process writer.
type Recorder struct {
	store      Store
	ledger     Ledger
	passphrase string
	policy     phase.VotePolicy
	attempts   int
	locks      *keyedLock
	now        func() time.Time
}

func New(store Store, l Ledger, cfg Config) *Recorder {
	attempts := cfg.SubmitAttempts
	if attempts < 1 {
		attempts = 1
	}
	if attempts > try.MaxRetries {
		attempts = try.MaxRetries
	}
	return &Recorder{
		store:      store,
		ledger:     l,
		passphrase: cfg.Passphrase,
		policy:     cfg.Policy,
		attempts:   attempts,
		locks:      newKeyedLock(),
		now:        time.Now,
	}
}

// Vote is a cast request. Phase is the election's current phase as read by
// the caller.
type Vote struct {
	Account     models.ElectionAccount
	Phase       models.Phase
	VoterID     string
	CandidateID string
}

// CastVote records one vote and returns its transaction hash. The voter's
// flag is set only after the ledger accepts the transaction.
func (r *Recorder) CastVote(ctx context.Context, v Vote) (string, error) {
	if err := phase.CheckVote(v.Phase, r.policy); err != nil {
		return "", err
	}
	if v.VoterID == "" || v.CandidateID == "" {
		return "", apperr.New(apperr.Validation, "voterId and candidateId are required")
	}

	unlock, err := r.locks.Lock(ctx, v.Account.AdminID)
	if err != nil {
		return "", apperr.Wrap(apperr.LedgerUnavailable, "Request cancelled while waiting to submit", err)
	}
	defer unlock()

	voter, err := r.store.FindVoter(ctx, v.Account.AdminID, v.VoterID)
	if err != nil {
		return "", err
	}
	candidate, err := r.store.FindCandidate(ctx, v.CandidateID)
	if err != nil {
		return "", err
	}
	if candidate.AdminID != v.Account.AdminID {
		return "", apperr.New(apperr.NotFound, "Candidate not found")
	}
	if voter.HasVoted {
		return "", apperr.New(apperr.AlreadyVoted, "You have already voted")
	}

	if intent, found, err := r.store.FindIntent(ctx, v.Account.AdminID, v.VoterID); err != nil {
		return "", err
	} else if found {
		res, err := r.resolve(ctx, intent)
		if err != nil {
			return "", err
		}
		switch res {
		case Voted:
			return "", apperr.New(apperr.AlreadyVoted, "You have already voted")
		case Pending:
			return "", apperr.New(apperr.VotePending, "A vote for this voter is already being processed")
		}
	}

	var hash string
	err = try.Do(func(attempt int) (bool, error) {
		var err error
		var retry bool
		hash, retry, err = r.submit(ctx, v, attempt)
		return retry && attempt < r.attempts, err
	})
	if err != nil {
		return "", err
	}
	return hash, nil
}

// submit performs one load-build-sign-record-submit round. retry is true
// only for a sequence conflict.
func (r *Recorder) submit(ctx context.Context, v Vote, attempt int) (string, bool, error) {
	acct, err := r.ledger.LoadAccount(ctx, v.Account.Address)
	if err != nil {
		return "", false, err
	}

	signed, err := ledger.BuildVote(acct, v.Account.Secret, v.CandidateID, r.passphrase, r.now().Add(ledger.VoteTimeout))
	if err != nil {
		if !ledger.ValidCandidateID(v.CandidateID) {
			return "", false, apperr.Wrap(apperr.Validation, "Candidate id cannot be recorded on the ledger", err)
		}
		return "", false, err
	}

	intent := models.VoteIntent{
		AdminID:     v.Account.AdminID,
		VoterID:     v.VoterID,
		CandidateID: v.CandidateID,
		TxHash:      signed.Hash,
		ExpiresAt:   signed.ExpiresAt,
	}
	if err := r.store.CreateIntent(ctx, intent); err != nil {
		return "", false, err
	}

	res, err := r.ledger.Submit(ctx, signed)
	if err != nil {
		// Outcome unknown: the intent stays until it can be resolved
		slog.Warn("vote submission outcome unknown",
			"admin_id", v.Account.AdminID, "voter_id", v.VoterID, "tx_hash", signed.Hash, "error", err)
		return "", false, err
	}

	if !res.Successful {
		if err := r.store.DeleteIntent(ctx, v.Account.AdminID, v.VoterID, signed.Hash); err != nil {
			return "", false, err
		}
		slog.Info("vote rejected by ledger",
			"admin_id", v.Account.AdminID, "voter_id", v.VoterID, "result_code", res.ResultCode, "operation_codes", res.OperationCodes, "attempt", attempt)
		return "", res.ResultCode == ResultBadSeq, apperr.Rejected(res.ResultCode, res.OperationCodes...)
	}

	if _, err := r.store.CompleteVote(ctx, v.Account.AdminID, v.VoterID, signed.Hash); err != nil {
		// The vote is on the ledger and the intent remains for the sweeper
		slog.Error("vote recorded on ledger but not locally",
			"admin_id", v.Account.AdminID, "voter_id", v.VoterID, "tx_hash", signed.Hash, "error", err)
	}

	slog.Info("vote recorded", "admin_id", v.Account.AdminID, "voter_id", v.VoterID, "tx_hash", signed.Hash)
	return signed.Hash, false, nil
}
