// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/ledger"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/phase"
)

type CandidateHandler struct {
	cfg cliparse.Config
	svc Services
}

func NewCandidateHandler(cfg cliparse.Config, svc Services) *CandidateHandler {
	return &CandidateHandler{cfg: cfg, svc: svc}
}

// Register handles POST /register-candidate
func (h *CandidateHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCandidateRequest
	if err := middleware.ParseAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if err := phase.CheckRegistration(admin.CurrentPhase); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	// The id must fit in a vote memo
	candidateID := strings.TrimSpace(req.CandidateID)
	if !ledger.ValidCandidateID(candidateID) {
		middleware.WriteError(w, r, apperr.New(apperr.Validation,
			"candidateId must be 1-23 letters, digits, '_', '.' or '-'"))
		return
	}
	if req.Age < MinimumAge {
		middleware.WriteError(w, r, apperr.New(apperr.Validation, "Candidate must be at least 18 years old"))
		return
	}

	candidate := models.Candidate{
		CandidateID:   candidateID,
		AdminID:       admin.ID,
		Name:          strings.TrimSpace(req.Name),
		ProfilePic:    req.ProfilePic,
		Age:           req.Age,
		Qualification: req.Qualification,
		Location:      req.Location,
		Party:         strings.TrimSpace(req.Party),
	}
	if err := h.svc.Store.CreateCandidate(r.Context(), candidate); err != nil {
		h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionCandidateRegistered, models.ActivityFailed,
			map[string]any{"candidateId": candidateID})
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("candidate registered", "admin_id", admin.ID, "candidate_id", candidateID)
	h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionCandidateRegistered, models.ActivitySuccess,
		map[string]any{"candidateId": candidateID})

	middleware.JSONResponse(w, http.StatusCreated, models.CandidateResponse{
		Success:   true,
		Message:   "Candidate registered successfully",
		Candidate: candidate,
	})
}

// List handles GET /all-candidate
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	candidates, err := h.svc.Store.ListCandidates(r.Context(), admin.ID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidatesResponse{Success: true, Candidates: candidates})
}

// Count handles GET /total-candidate
func (h *CandidateHandler) Count(w http.ResponseWriter, r *http.Request) {
	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	n, err := h.svc.Store.CountCandidates(r.Context(), admin.ID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Success: true, Count: n})
}

// Public handles GET /candidates?adminId=
// Returns display fields only.
func (h *CandidateHandler) Public(w http.ResponseWriter, r *http.Request) {
	adminID := r.URL.Query().Get("adminId")
	if adminID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "adminId is required")
		return
	}

	if _, err := h.svc.Store.FindAdmin(r.Context(), adminID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	candidates, err := h.svc.Store.ListCandidates(r.Context(), adminID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	public := make([]models.PublicCandidate, len(candidates))
	for i, c := range candidates {
		public[i] = models.PublicCandidate{
			Name:          c.Name,
			Party:         c.Party,
			Age:           c.Age,
			Qualification: c.Qualification,
			Location:      c.Location,
			Profile:       c.ProfilePic,
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PublicCandidatesResponse{Success: true, Candidates: public})
}

// SameCity handles POST /city-candidate
// Lists the admin's candidates standing in the voter's city.
func (h *CandidateHandler) SameCity(w http.ResponseWriter, r *http.Request) {
	var req models.VoterLookupRequest
	if err := middleware.ParseAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	voter, err := h.svc.Store.FindVoter(r.Context(), admin.ID, strings.TrimSpace(req.VoterID))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	candidates, err := h.svc.Store.ListCandidatesByCity(r.Context(), admin.ID, voter.Location.City)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if len(candidates) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No candidates found in your area")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidatesResponse{Success: true, Candidates: candidates})
}
