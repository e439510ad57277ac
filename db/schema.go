// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported values for the database type setting
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured database and verifies the connection.
func Open(driverType, url string) (*sql.DB, error) {
	switch driverType {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database type %q (want sqlite or postgres)", driverType)
	}

	conn, err := sql.Open(driverType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driverType, err)
	}

	if driverType == DriverSQLite {
		// SQLite allows a single writer; serialize through one connection
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// IsUniqueViolation reports whether err was caused by a UNIQUE or PRIMARY KEY
// constraint on either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Statements are split on ';' and must not contain one in their bodies.
const schema = `
-- Admins, each owning one Election Account
CREATE TABLE IF NOT EXISTS admin (
    id TEXT PRIMARY KEY,
    id_no TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    wallet_address TEXT NOT NULL UNIQUE,
    wallet_secret TEXT NOT NULL,
    current_phase TEXT NOT NULL DEFAULT 'Selection Pending',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Voters, unique per admin
CREATE TABLE IF NOT EXISTS voter (
    admin_id TEXT NOT NULL REFERENCES admin(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    dob TEXT NOT NULL,
    city TEXT NOT NULL,
    state TEXT NOT NULL,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    vote_tx_hash TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (admin_id, voter_id),
    UNIQUE (admin_id, email)
);

CREATE INDEX IF NOT EXISTS idx_voter_admin_voted ON voter(admin_id, has_voted);

-- Candidates, globally unique
CREATE TABLE IF NOT EXISTS candidate (
    candidate_id TEXT PRIMARY KEY,
    admin_id TEXT NOT NULL REFERENCES admin(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    profile_pic TEXT NOT NULL,
    age INTEGER NOT NULL,
    qualification TEXT NOT NULL,
    city TEXT NOT NULL,
    state TEXT NOT NULL,
    party TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_candidate_admin ON candidate(admin_id);
CREATE INDEX IF NOT EXISTS idx_candidate_city ON candidate(admin_id, city);

-- Signed vote transactions whose outcome is not yet known locally
CREATE TABLE IF NOT EXISTS vote_intent (
    admin_id TEXT NOT NULL,
    voter_id TEXT NOT NULL,
    candidate_id TEXT NOT NULL,
    tx_hash TEXT NOT NULL,
    expires_at BIGINT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (admin_id, voter_id),
    FOREIGN KEY (admin_id, voter_id) REFERENCES voter(admin_id, voter_id) ON DELETE CASCADE
);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id TEXT PRIMARY KEY,
    admin_id TEXT,
    action TEXT NOT NULL,
    status TEXT NOT NULL,
    ip_address TEXT,
    user_agent TEXT,
    metadata TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_admin ON activity_log(admin_id, created_at)
`
