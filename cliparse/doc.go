// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first when present.

# CLI Flags and Environment Variables

	-p                PORT                       Server port (default 5000)
	-d                DATABASE_URL               Database URL (required)
	-t                DATABASE_TYPE              sqlite or postgres (default sqlite)
	-admin-salt       ADMIN_KEY_SALT             Admin key HMAC secret (required)
	-horizon          LEDGER_SERVER              Horizon URL (default testnet)
	-passphrase       LEDGER_NETWORK_PASSPHRASE  Signing passphrase (default testnet)
	-friendbot        LEDGER_FRIENDBOT_URL       Account funding endpoint, empty disables
	-submit-attempts  LEDGER_SUBMIT_ATTEMPTS     Vote attempts on sequence conflict (default 3)
	-read-attempts    LEDGER_READ_ATTEMPTS       Attempts per ledger read (default 3)
	-vote-policy      VOTE_PHASE_POLICY          strict or legacy (default strict)
	-reconcile        RECONCILE_SCHEDULE         Sweeper cron spec, empty disables (default "@every 1m")
	-tz               TALLY_TIMEZONE             Location for hourly tallies (default Local)
	-mongo            MONGO_URL                  MongoDB activity log, unset uses SQL
	-mongo-db         MONGO_DATABASE             MongoDB database (default "ballot")

CLI flags take precedence over environment variables. For -friendbot and
-reconcile an explicit empty value ("-friendbot=") overrides the default.

# Vote Policy

strict accepts votes only in the Voting phase. legacy accepts them in every
phase except Registration and Result, which includes Selection Pending.
*/
package cliparse
