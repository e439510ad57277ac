// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ledger-ballot API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	svc := handlers.NewServices(db, cfg, network, activityLog)
	mux := router.NewRouter(cfg, svc)

The mux does not apply CORS; main wraps it with middleware.CORS.

# Endpoints

Health:

	GET /health

Admin accounts (public):

	POST /admin-register - Create admin and fund its Election Account
	POST /admin-login    - Exchange id_no/password for an admin key
	GET  /admins         - List elections
	GET  /candidates     - Candidates of ?adminId= (display fields)
	GET  /public-result  - Results of ?adminId= once published

Admin (requires X-Admin-ID and X-Admin-Key):

	GET  /get-details         - Current admin without secrets
	GET  /get-current-phase   - Election phase
	POST /changephase         - Advance the phase one step
	POST /register-voter      - Add a voter (Registration only)
	GET  /allvoter            - Voter roll
	GET  /register-votercount - Voter count
	POST /voter-login         - Look up a voter at the polling station
	POST /register-candidate  - Add a candidate (Registration only)
	GET  /all-candidate       - Candidate list
	GET  /total-candidate     - Candidate count
	POST /city-candidate      - Candidates in a voter's city
	POST /cast-vote           - Record a vote on the ledger
	GET  /admin-result        - Live or final tally
	GET  /hourly              - Votes per hour for ?filter=
	GET  /total-votes         - Votes on the ledger
	GET  /download-ledger     - Election Account history as CSV
	GET  /activity-log        - Audit entries, newest first (?page=&limit=)
*/
package router
