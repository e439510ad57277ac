// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/phase"
)

type ElectionHandler struct {
	cfg cliparse.Config
	svc Services
}

func NewElectionHandler(cfg cliparse.Config, svc Services) *ElectionHandler {
	return &ElectionHandler{cfg: cfg, svc: svc}
}

// CurrentPhase handles GET /get-current-phase
func (h *ElectionHandler) CurrentPhase(w http.ResponseWriter, r *http.Request) {
	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PhaseResponse{Success: true, CurrentPhase: admin.CurrentPhase})
}

// ChangePhase handles POST /changephase
// Phases only move one step forward: Selection Pending → Registration → Voting → Result
func (h *ElectionHandler) ChangePhase(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePhaseRequest
	if err := middleware.ParseAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	meta := map[string]any{"from": admin.CurrentPhase, "to": req.CurrentPhase}

	err = phase.CheckTransition(admin.CurrentPhase, req.CurrentPhase)
	if err == nil {
		err = h.svc.Store.SetPhase(r.Context(), admin.ID, admin.CurrentPhase, req.CurrentPhase)
	}
	if err != nil {
		h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionChangePhase, models.ActivityFailed, meta)
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("election phase changed", "admin_id", admin.ID, "from", admin.CurrentPhase, "to", req.CurrentPhase)
	h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionChangePhase, models.ActivitySuccess, meta)

	middleware.JSONResponse(w, http.StatusOK, models.PhaseResponse{Success: true, CurrentPhase: req.CurrentPhase})
}
