// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/ledger-ballot/activity"
	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/models"
)

type ActivityHandler struct {
	cfg cliparse.Config
	svc Services
}

func NewActivityHandler(cfg cliparse.Config, svc Services) *ActivityHandler {
	return &ActivityHandler{cfg: cfg, svc: svc}
}

// List handles GET /activity-log?page=&limit=
// Entries for the authenticated admin, newest first
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(r, "page", 1)
	if !ok || page < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "page must be a positive number")
		return
	}
	limit, ok := queryInt(r, "limit", activity.DefaultPageSize)
	if !ok || limit < 1 || limit > activity.MaxPageSize {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"limit must be between 1 and "+strconv.Itoa(activity.MaxPageSize))
		return
	}

	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	entries, err := h.svc.Activity.List(r.Context(), admin.ID, page, limit)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActivityLogResponse{
		Success: true,
		Page:    page,
		Limit:   limit,
		Entries: entries,
	})
}

func queryInt(r *http.Request, key string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}
