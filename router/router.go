// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/handlers"
	"github.com/danielhkuo/ledger-ballot/middleware"
)

func NewRouter(cfg cliparse.Config, svc handlers.Services) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(cfg, svc)
	electionHandler := handlers.NewElectionHandler(cfg, svc)
	voterHandler := handlers.NewVoterHandler(cfg, svc)
	candidateHandler := handlers.NewCandidateHandler(cfg, svc)
	votingHandler := handlers.NewVotingHandler(cfg, svc)
	resultsHandler := handlers.NewResultsHandler(cfg, svc)
	activityHandler := handlers.NewActivityHandler(cfg, svc)

	// admin wraps a handler with request logging and admin authentication
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg.AdminKeySalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Admin accounts (public)
	mux.HandleFunc("POST /admin-register", middleware.WithLogging(adminHandler.Register))
	mux.HandleFunc("POST /admin-login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("GET /admins", middleware.WithLogging(adminHandler.ListAdmins))
	mux.HandleFunc("GET /get-details", admin(adminHandler.Details))

	// Election phase
	mux.HandleFunc("GET /get-current-phase", admin(electionHandler.CurrentPhase))
	mux.HandleFunc("POST /changephase", admin(electionHandler.ChangePhase))

	// Voter roll
	mux.HandleFunc("POST /register-voter", admin(voterHandler.Register))
	mux.HandleFunc("GET /allvoter", admin(voterHandler.List))
	mux.HandleFunc("GET /register-votercount", admin(voterHandler.Count))
	mux.HandleFunc("POST /voter-login", admin(voterHandler.Login))

	// Candidates
	mux.HandleFunc("POST /register-candidate", admin(candidateHandler.Register))
	mux.HandleFunc("GET /all-candidate", admin(candidateHandler.List))
	mux.HandleFunc("GET /total-candidate", admin(candidateHandler.Count))
	mux.HandleFunc("POST /city-candidate", admin(candidateHandler.SameCity))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(candidateHandler.Public))

	// Voting (polling station, runs under the admin's session)
	mux.HandleFunc("POST /cast-vote", admin(votingHandler.CastVote))

	// Results
	mux.HandleFunc("GET /admin-result", admin(resultsHandler.AdminResult))
	mux.HandleFunc("GET /public-result", middleware.WithLogging(resultsHandler.PublicResult))
	mux.HandleFunc("GET /hourly", admin(resultsHandler.Hourly))
	mux.HandleFunc("GET /total-votes", admin(resultsHandler.TotalVotes))
	mux.HandleFunc("GET /download-ledger", admin(resultsHandler.DownloadLedger))

	// Audit trail
	mux.HandleFunc("GET /activity-log", admin(activityHandler.List))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ledger-ballot API v1"))
	})

	return mux
}
