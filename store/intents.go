// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/models"
)

const intentColumns = `admin_id, voter_id, candidate_id, tx_hash, expires_at`

func scanIntent(row rowScanner) (models.VoteIntent, error) {
	var in models.VoteIntent
	var expires int64
	err := row.Scan(&in.AdminID, &in.VoterID, &in.CandidateID, &in.TxHash, &expires)
	in.ExpiresAt = time.Unix(expires, 0).UTC()
	return in, err
}

// CreateIntent records a signed vote transaction before it is submitted. A
// voter can hold only one intent at a time.
func (s *Store) CreateIntent(ctx context.Context, in models.VoteIntent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vote_intent (admin_id, voter_id, candidate_id, tx_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, in.AdminID, in.VoterID, in.CandidateID, in.TxHash, in.ExpiresAt.Unix(), s.now())
	if err != nil {
		return insertErr(err, apperr.New(apperr.VotePending, "A vote for this voter is already being processed"), "vote intent")
	}
	return nil
}

func (s *Store) FindIntent(ctx context.Context, adminID, voterID string) (models.VoteIntent, bool, error) {
	in, err := scanIntent(s.db.QueryRowContext(ctx,
		`SELECT `+intentColumns+` FROM vote_intent WHERE admin_id = $1 AND voter_id = $2`, adminID, voterID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoteIntent{}, false, nil
	}
	if err != nil {
		return models.VoteIntent{}, false, fmt.Errorf("failed to load vote intent: %w", err)
	}
	return in, true, nil
}

// DeleteIntent removes the intent only if it still names txHash, so a
// resolver never discards a newer attempt.
func (s *Store) DeleteIntent(ctx context.Context, adminID, voterID, txHash string) error {
	return deleteIntent(ctx, s.db, adminID, voterID, txHash)
}

func (s *Store) ListIntents(ctx context.Context) ([]models.VoteIntent, error) {
	intents, err := queryList(ctx, s.db, scanIntent,
		`SELECT `+intentColumns+` FROM vote_intent ORDER BY expires_at, admin_id, voter_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vote intents: %w", err)
	}
	return intents, nil
}

func deleteIntent(ctx context.Context, conn execer, adminID, voterID, txHash string) error {
	_, err := conn.ExecContext(ctx,
		`DELETE FROM vote_intent WHERE admin_id = $1 AND voter_id = $2 AND tx_hash = $3`,
		adminID, voterID, txHash)
	if err != nil {
		return fmt.Errorf("failed to delete vote intent: %w", err)
	}
	return nil
}
