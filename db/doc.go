// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open accepts the configured database type and URL:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Both "postgres" (lib/pq) and "sqlite" (modernc.org/sqlite, pure Go) are
supported. All queries in this module use $N placeholders, which both
drivers accept. SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - admin: Administrator record, Election Account keypair and current phase
  - voter: Voters, unique per admin by voter_id and by email
  - candidate: Candidates, globally unique by candidate_id
  - vote_intent: Signed but unresolved vote transactions, at most one per voter
  - activity_log: Audit trail written by the SQL activity sink

# Relationships

	admin 1──* voter
	admin 1──* candidate
	voter 1──0..1 vote_intent

# Errors

IsUniqueViolation recognizes constraint failures from both drivers so
callers can report duplicates as conflicts.
*/
package db
