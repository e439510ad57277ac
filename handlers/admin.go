// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/auth"
	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/ledger"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/models"
)

type AdminHandler struct {
	cfg cliparse.Config
	svc Services
}

func NewAdminHandler(cfg cliparse.Config, svc Services) *AdminHandler {
	return &AdminHandler{cfg: cfg, svc: svc}
}

// Register handles POST /admin-register
// Each admin gets exactly one Election Account, created and funded here.
func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterAdminRequest
	if err := middleware.ParseAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	address, secret, err := ledger.NewElectionKeypair()
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if err := h.svc.Ledger.Fund(r.Context(), address); err != nil {
		slog.Warn("failed to fund election account", "address", address, "error", err)
		middleware.WriteError(w, r, err)
		return
	}

	admin := models.Admin{
		ID:            auth.NewRecordID(),
		IDNo:          strings.TrimSpace(req.IDNo),
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:  hash,
		WalletAddress: address,
		WalletSecret:  secret,
		CurrentPhase:  models.PhaseSelectionPending,
	}
	if err := h.svc.Store.CreateAdmin(r.Context(), admin); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("admin registered", "admin_id", admin.ID, "wallet_address", address)
	h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionAdminRegistered, models.ActivitySuccess,
		map[string]any{"walletAddress": address})

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterAdminResponse{
		Success:       true,
		Message:       "Admin registered successfully",
		AdminID:       admin.ID,
		WalletAddress: address,
	})
}

// Login handles POST /admin-login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	admin, err := h.svc.Store.FindAdminByIDNo(r.Context(), strings.TrimSpace(req.IDNo))
	if err != nil && !apperr.Is(err, apperr.NotFound) {
		middleware.WriteError(w, r, err)
		return
	}
	if err != nil || auth.CheckPassword(admin.PasswordHash, req.Password) != nil {
		h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionLogin, models.ActivityFailed,
			map[string]any{"id_no": req.IDNo})
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.svc.Activity.Record(r.Context(), r, admin.ID, models.ActionLogin, models.ActivitySuccess, nil)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Success:       true,
		Message:       "Login successful",
		AdminID:       admin.ID,
		AdminKey:      auth.GenerateAdminKey(admin.ID, h.cfg.AdminKeySalt),
		WalletAddress: admin.WalletAddress,
	})
}

// ListAdmins handles GET /admins
func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.Store.ListAdmins(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	public := make([]models.PublicAdmin, len(admins))
	for i, a := range admins {
		public[i] = models.PublicAdmin{
			ID:            a.ID,
			Name:          a.Name,
			WalletAddress: a.WalletAddress,
			CurrentPhase:  a.CurrentPhase,
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdminsResponse{Success: true, Admins: public})
}

// Details handles GET /get-details
func (h *AdminHandler) Details(w http.ResponseWriter, r *http.Request) {
	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AdminDetailsResponse{Success: true, Admin: admin})
}
