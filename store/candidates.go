// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/models"
)

const candidateColumns = `candidate_id, admin_id, name, profile_pic, age, qualification, city, state, party`

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(&c.CandidateID, &c.AdminID, &c.Name, &c.ProfilePic, &c.Age,
		&c.Qualification, &c.Location.City, &c.Location.State, &c.Party)
	return c, err
}

func (s *Store) CreateCandidate(ctx context.Context, c models.Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidate (candidate_id, admin_id, name, profile_pic, age, qualification, city, state, party, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.CandidateID, c.AdminID, c.Name, c.ProfilePic, c.Age, c.Qualification,
		c.Location.City, c.Location.State, c.Party, s.now())
	if err != nil {
		return insertErr(err, apperr.New(apperr.Conflict, "Candidate already registered"), "candidate")
	}
	return nil
}

// FindCandidate looks a candidate up by its global identifier.
func (s *Store) FindCandidate(ctx context.Context, candidateID string) (models.Candidate, error) {
	c, err := scanCandidate(s.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidate WHERE candidate_id = $1`, candidateID))
	if err != nil {
		return models.Candidate{}, notFound(err, "Candidate not found")
	}
	return c, nil
}

// ListCandidates returns an admin's candidates in registration order.
func (s *Store) ListCandidates(ctx context.Context, adminID string) ([]models.Candidate, error) {
	candidates, err := queryList(ctx, s.db, scanCandidate,
		`SELECT `+candidateColumns+` FROM candidate WHERE admin_id = $1 ORDER BY created_at, candidate_id`, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (s *Store) ListCandidatesByCity(ctx context.Context, adminID, city string) ([]models.Candidate, error) {
	candidates, err := queryList(ctx, s.db, scanCandidate,
		`SELECT `+candidateColumns+` FROM candidate WHERE admin_id = $1 AND city = $2 ORDER BY created_at, candidate_id`,
		adminID, city)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (s *Store) CountCandidates(ctx context.Context, adminID string) (int, error) {
	n, err := count(ctx, s.db, `SELECT COUNT(*) FROM candidate WHERE admin_id = $1`, adminID)
	if err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return n, nil
}
