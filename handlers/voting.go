// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/recorder"
)

type VotingHandler struct {
	cfg cliparse.Config
	svc Services
}

func NewVotingHandler(cfg cliparse.Config, svc Services) *VotingHandler {
	return &VotingHandler{cfg: cfg, svc: svc}
}

// CastVote handles POST /cast-vote
// The election phase is read here and handed to the recorder.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	vote := recorder.Vote{
		Account:     admin.ElectionAccount(),
		Phase:       admin.CurrentPhase,
		VoterID:     strings.TrimSpace(req.VoterID),
		CandidateID: strings.TrimSpace(req.CandidateID),
	}

	hash, err := h.svc.Recorder.CastVote(r.Context(), vote)
	if err != nil {
		meta := map[string]any{
			"voterId": vote.VoterID,
			"reason":  apperr.KindOf(err).String(),
		}
		if code := apperr.ResultCode(err); code != "" {
			meta["resultCode"] = code
		}
		if ops := apperr.OperationCodes(err); len(ops) > 0 {
			meta["operationCodes"] = ops
		}
		h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionCastVote, models.ActivityFailed, meta)
		middleware.WriteError(w, r, err)
		return
	}

	h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionCastVote, models.ActivitySuccess,
		map[string]any{"transactionHash": hash})

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Success: true,
		Message: "Vote recorded!",
		Hash:    hash,
	})
}
