// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/phase"
)

// MinimumAge applies to voters and candidates.
const MinimumAge = 18

type VoterHandler struct {
	cfg cliparse.Config
	svc Services
	now func() time.Time
}

func NewVoterHandler(cfg cliparse.Config, svc Services) *VoterHandler {
	return &VoterHandler{cfg: cfg, svc: svc, now: time.Now}
}

// ageOn returns completed years between dob and now
func ageOn(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// Register handles POST /register-voter
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
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

	// The validator already checked the layout
	dob, _ := time.Parse("2006-01-02", req.DOB)
	if dob.After(h.now()) {
		middleware.WriteError(w, r, apperr.New(apperr.Validation, "dob cannot be in the future"))
		return
	}
	if ageOn(dob, h.now()) < MinimumAge {
		middleware.WriteError(w, r, apperr.New(apperr.Validation, "Voter must be at least 18 years old"))
		return
	}

	voter := models.Voter{
		AdminID:  admin.ID,
		VoterID:  strings.TrimSpace(req.VoterID),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		DOB:      dob,
		Location: req.Location,
	}
	if err := h.svc.Store.CreateVoter(r.Context(), voter); err != nil {
		h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionVoterRegistered, models.ActivityFailed,
			map[string]any{"voterId": voter.VoterID})
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("voter registered", "admin_id", admin.ID, "voter_id", voter.VoterID)
	h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionVoterRegistered, models.ActivitySuccess,
		map[string]any{"voterId": voter.VoterID})

	middleware.JSONResponse(w, http.StatusCreated, models.VoterResponse{
		Success: true,
		Message: "Voter registered successfully",
		Voter:   voter,
	})
}

// List handles GET /allvoter
func (h *VoterHandler) List(w http.ResponseWriter, r *http.Request) {
	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	voters, err := h.svc.Store.ListVoters(r.Context(), admin.ID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VotersResponse{Success: true, Voters: voters})
}

// Count handles GET /register-votercount
func (h *VoterHandler) Count(w http.ResponseWriter, r *http.Request) {
	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	n, err := h.svc.Store.CountVoters(r.Context(), admin.ID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Success: true, Count: n})
}

// Login handles POST /voter-login
// The polling station looks a voter up before showing the ballot.
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
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

	middleware.JSONResponse(w, http.StatusOK, models.VoterResponse{
		Success: true,
		Message: "Login successful",
		Voter:   voter,
	})
}
