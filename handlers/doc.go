// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ledger-ballot API.

# Handler Types

Each handler is a struct with config and service dependencies:

  - AdminHandler: Admin registration, login and listing
  - ElectionHandler: Election phase reads and transitions
  - VoterHandler: Voter roll and polling station lookup
  - CandidateHandler: Candidate registration and listings
  - VotingHandler: Vote casting
  - ResultsHandler: Tallies, hourly histogram and ledger export
  - ActivityHandler: Paged audit trail of the admin's election

Handlers share one Services value built from the database and ledger:

	svc := handlers.NewServices(db, cfg, network, activityLog)
	votingHandler := handlers.NewVotingHandler(cfg, svc)

# Election Phases

Each admin runs one election that moves one step at a time:

	Selection Pending → Registration → Voting → Result

Voters and candidates are registered only during Registration. Votes are
accepted only during Voting (the legacy vote policy also accepts them in
Selection Pending). Results are live for the admin while voting is open and
public once the phase is Result.

# Voting Flow

	POST /voter-login → VoterHandler.Login (polling station looks the voter up)
	POST /cast-vote   → VotingHandler.CastVote

CastVote reads the admin's phase and Election Account and hands the vote to
the recorder, which submits a "Vote:<candidateId>" transaction and sets the
voter's flag only after the ledger accepts it.

# Errors

Handlers return errors through middleware.WriteError, which maps the apperr
kind to a status code. Every state change is written to the activity log
with success or failed status.
*/
package handlers
