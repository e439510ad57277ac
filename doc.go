// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ledger-ballot API server.

ledger-ballot runs elections whose votes are recorded as memo-bearing
transactions on a Stellar Election Account, one account per admin. The
local database holds the voter roll, candidates and each voter's "has
voted" flag; tallies are always recomputed from the ledger.

# Starting the Server

The server reads environment variables (a .env file is loaded if present)
or CLI flags:

	DATABASE_URL=ballot.db ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 5000 -t postgres -d "postgres://..." --admin-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - LEDGER_SERVER, LEDGER_NETWORK_PASSPHRASE, LEDGER_FRIENDBOT_URL: ledger network (testnet by default)
  - VOTE_PHASE_POLICY (--vote-policy): strict (default) or legacy
  - RECONCILE_SCHEDULE (--reconcile): cron spec for the sweeper, empty disables it
  - TALLY_TIMEZONE (--tz): zone for hourly tallies
  - MONGO_URL, MONGO_DATABASE: send the activity log to MongoDB

# Architecture

  - handlers: HTTP request handlers (admins, phases, voters, candidates, votes, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin authentication, validation, JSON helpers
  - recorder: Records one vote per voter on the ledger
  - tally: Counts votes from ledger history
  - reconcile: Background sweeper for pending votes and tally audits
  - ledger: Horizon client, transaction building, vote memos
  - store: SQL persistence
  - activity: Fire-and-forget audit log
  - phase: Election phase rules
  - apperr: Error kinds and their HTTP mapping
  - models: Domain and request/response types
  - auth: Password hashing, admin keys, record ids
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
