// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Admin: administrator record; owns one Election Account (wallet address + secret)
  - ElectionAccount: the ledger credentials used to sign every vote of one election
  - Voter: voter registered under one admin; HasVoted only ever goes false → true
  - Candidate: globally unique candidate belonging to one admin
  - VoteIntent: a signed vote transaction whose ledger outcome is not yet known
  - ActivityEntry: fire-and-forget audit record

# Phases

	PhaseSelectionPending = "Selection Pending"
	PhaseRegistration     = "Registration"
	PhaseVoting           = "Voting"
	PhaseResult           = "Result"

# Responses

Every response carries a Success flag. Errors use ErrorResponse:

	{"Success": false, "error": "Bad Request", "message": "...", "resultCode": "tx_bad_seq"}

resultCode is only set when the ledger rejected a vote transaction.
*/
package models
