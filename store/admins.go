// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/models"
)

const adminColumns = `id, id_no, name, email, password_hash, wallet_address, wallet_secret, current_phase, created_at`

func scanAdmin(row rowScanner) (models.Admin, error) {
	var a models.Admin
	var phase string
	err := row.Scan(&a.ID, &a.IDNo, &a.Name, &a.Email, &a.PasswordHash,
		&a.WalletAddress, &a.WalletSecret, &phase, &a.CreatedAt)
	a.CurrentPhase = models.Phase(phase)
	return a, err
}

// CreateAdmin inserts an admin together with its Election Account keypair.
func (s *Store) CreateAdmin(ctx context.Context, a models.Admin) error {
	if a.CurrentPhase == "" {
		a.CurrentPhase = models.PhaseSelectionPending
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin (id, id_no, name, email, password_hash, wallet_address, wallet_secret, current_phase, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.IDNo, a.Name, a.Email, a.PasswordHash, a.WalletAddress, a.WalletSecret, string(a.CurrentPhase), a.CreatedAt)
	if err != nil {
		return insertErr(err, apperr.New(apperr.Conflict, "Admin already registered"), "admin")
	}
	return nil
}

func (s *Store) FindAdmin(ctx context.Context, adminID string) (models.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin WHERE id = $1`, adminID))
	if err != nil {
		return models.Admin{}, notFound(err, "Admin not found")
	}
	return a, nil
}

func (s *Store) FindAdminByIDNo(ctx context.Context, idNo string) (models.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin WHERE id_no = $1`, idNo))
	if err != nil {
		return models.Admin{}, notFound(err, "Admin not found")
	}
	return a, nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	admins, err := queryList(ctx, s.db, scanAdmin,
		`SELECT `+adminColumns+` FROM admin ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// CurrentPhase is the phase source consumed by the vote recorder.
func (s *Store) CurrentPhase(ctx context.Context, adminID string) (models.Phase, error) {
	var phase string
	err := s.db.QueryRowContext(ctx, `SELECT current_phase FROM admin WHERE id = $1`, adminID).Scan(&phase)
	if err != nil {
		return "", notFound(err, "Admin not found")
	}
	return models.Phase(phase), nil
}

// SetPhase moves an admin from one phase to the next. The update only applies
// while the stored phase still equals from.
func (s *Store) SetPhase(ctx context.Context, adminID string, from, to models.Phase) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE admin SET current_phase = $1 WHERE id = $2 AND current_phase = $3`,
		string(to), adminID, string(from))
	if err != nil {
		return fmt.Errorf("failed to update phase: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update phase: %w", err)
	}
	if n == 0 {
		if _, err := s.CurrentPhase(ctx, adminID); err != nil {
			return err
		}
		return apperr.New(apperr.Conflict, "Election phase changed concurrently, reload and retry")
	}
	return nil
}
