// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/models"
)

const dobLayout = "2006-01-02"

const voterColumns = `admin_id, voter_id, name, email, dob, city, state, has_voted, vote_tx_hash`

func scanVoter(row rowScanner) (models.Voter, error) {
	var v models.Voter
	var dob string
	var txHash sql.NullString
	err := row.Scan(&v.AdminID, &v.VoterID, &v.Name, &v.Email, &dob,
		&v.Location.City, &v.Location.State, &v.HasVoted, &txHash)
	if err != nil {
		return models.Voter{}, err
	}
	v.DOB, err = time.Parse(dobLayout, dob)
	if err != nil {
		return models.Voter{}, fmt.Errorf("bad dob %q for voter %s: %w", dob, v.VoterID, err)
	}
	v.VoteTransactionID = txHash.String
	return v, nil
}

func (s *Store) CreateVoter(ctx context.Context, v models.Voter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO voter (admin_id, voter_id, name, email, dob, city, state, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)
	`, v.AdminID, v.VoterID, v.Name, v.Email, v.DOB.Format(dobLayout),
		v.Location.City, v.Location.State, s.now())
	if err != nil {
		return insertErr(err, apperr.New(apperr.Conflict, "Voter already registered"), "voter")
	}
	return nil
}

// FindVoter looks a voter up within one admin's election.
func (s *Store) FindVoter(ctx context.Context, adminID, voterID string) (models.Voter, error) {
	v, err := scanVoter(s.db.QueryRowContext(ctx,
		`SELECT `+voterColumns+` FROM voter WHERE admin_id = $1 AND voter_id = $2`, adminID, voterID))
	if err != nil {
		return models.Voter{}, notFound(err, "Voter not found")
	}
	return v, nil
}

func (s *Store) ListVoters(ctx context.Context, adminID string) ([]models.Voter, error) {
	voters, err := queryList(ctx, s.db, scanVoter,
		`SELECT `+voterColumns+` FROM voter WHERE admin_id = $1 ORDER BY created_at, voter_id`, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list voters: %w", err)
	}
	return voters, nil
}

func (s *Store) CountVoters(ctx context.Context, adminID string) (int, error) {
	n, err := count(ctx, s.db, `SELECT COUNT(*) FROM voter WHERE admin_id = $1`, adminID)
	if err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return n, nil
}

func (s *Store) CountVoted(ctx context.Context, adminID string) (int, error) {
	n, err := count(ctx, s.db, `SELECT COUNT(*) FROM voter WHERE admin_id = $1 AND has_voted = TRUE`, adminID)
	if err != nil {
		return 0, fmt.Errorf("failed to count voted: %w", err)
	}
	return n, nil
}

// CompleteVote marks the voter as voted and removes the intent for txHash in
// one transaction. The flag is never cleared; a voter that has already voted
// keeps its original hash. It reports whether this call flipped the flag.
func (s *Store) CompleteVote(ctx context.Context, adminID, voterID, txHash string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	flipped, err := markVoted(ctx, tx, adminID, voterID, txHash)
	if err != nil {
		return false, err
	}
	if err := deleteIntent(ctx, tx, adminID, voterID, txHash); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit vote: %w", err)
	}
	return flipped, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func markVoted(ctx context.Context, conn execer, adminID, voterID, txHash string) (bool, error) {
	res, err := conn.ExecContext(ctx, `
		UPDATE voter SET has_voted = TRUE, vote_tx_hash = $1
		WHERE admin_id = $2 AND voter_id = $3 AND has_voted = FALSE
	`, txHash, adminID, voterID)
	if err != nil {
		return false, fmt.Errorf("failed to mark voter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to mark voter: %w", err)
	}
	return n == 1, nil
}
