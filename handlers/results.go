// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/phase"
	"github.com/danielhkuo/ledger-ballot/tally"
)

type ResultsHandler struct {
	cfg cliparse.Config
	svc Services
}

func NewResultsHandler(cfg cliparse.Config, svc Services) *ResultsHandler {
	return &ResultsHandler{cfg: cfg, svc: svc}
}

// AdminResult handles GET /admin-result
// Live tallies are shown to the admin while voting is open.
func (h *ResultsHandler) AdminResult(w http.ResponseWriter, r *http.Request) {
	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.writeResult(w, r, admin, phase.AdminAudience)
}

// PublicResult handles GET /public-result?adminId=
// Results stay sealed until the Result phase.
func (h *ResultsHandler) PublicResult(w http.ResponseWriter, r *http.Request) {
	adminID := r.URL.Query().Get("adminId")
	if adminID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "adminId is required in query parameters")
		return
	}

	admin, err := h.svc.Store.FindAdmin(r.Context(), adminID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.writeResult(w, r, admin, phase.PublicAudience)
}

func (h *ResultsHandler) writeResult(w http.ResponseWriter, r *http.Request, admin models.Admin, audience phase.Audience) {
	visibility, message := phase.ResultVisibility(admin.CurrentPhase, audience)
	if visibility == phase.Hidden {
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Success: false, Message: message})
		return
	}

	candidates, err := h.svc.Store.ListCandidates(r.Context(), admin.ID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if len(candidates) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No Candidates Found for this admin!")
		return
	}

	res, err := h.svc.Tally.Tally(r.Context(), admin.WalletAddress, candidates)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultResponse{
		Success:       true,
		Final:         visibility == phase.Final,
		TopCandidates: res.Top,
		AllCandidates: res.All,
	})
}

// Hourly handles GET /hourly?filter=
func (h *ResultsHandler) Hourly(w http.ResponseWriter, r *http.Request) {
	preset, err := tally.ParsePreset(r.URL.Query().Get("filter"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	hourly, err := h.svc.Tally.Hourly(r.Context(), admin.WalletAddress, string(preset))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HourlyResponse{
		Success:     true,
		Filter:      string(preset),
		HourlyVotes: hourly,
	})
}

// TotalVotes handles GET /total-votes
func (h *ResultsHandler) TotalVotes(w http.ResponseWriter, r *http.Request) {
	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	total, err := h.svc.Tally.TotalVotes(r.Context(), admin.WalletAddress)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TotalVotesResponse{Success: true, TotalVotes: total})
}

// ledgerRow is one line of the ledger CSV export
type ledgerRow struct {
	Hash           string `csv:"Tx Hash"`
	SourceAccount  string `csv:"Source Account"`
	FeeCharged     int64  `csv:"Fee Charged"`
	Memo           string `csv:"Memo"`
	OperationCount int32  `csv:"Operation Count"`
	CreatedAt      string `csv:"Created At"`
}

// DownloadLedger handles GET /download-ledger
// Streams the Election Account's full transaction history as CSV.
func (h *ResultsHandler) DownloadLedger(w http.ResponseWriter, r *http.Request) {
	admin, err := currentAdmin(r, h.svc.Store)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	records, err := h.svc.Ledger.AllTransactions(r.Context(), admin.WalletAddress)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if len(records) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No transactions found.")
		return
	}

	rows := make([]ledgerRow, len(records))
	for i, rec := range records {
		rows[i] = ledgerRow{
			Hash:           rec.Hash,
			SourceAccount:  rec.SourceAccount,
			FeeCharged:     rec.FeeCharged,
			Memo:           rec.Memo,
			OperationCount: rec.OperationCount,
			CreatedAt:      rec.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	filename := fmt.Sprintf("ledger_transactions_%s.csv", admin.WalletAddress[:min(6, len(admin.WalletAddress))])
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := gocsv.Marshal(rows, w); err != nil {
		// Headers are already sent
		slog.Error("failed to write ledger csv", "admin_id", admin.ID, "error", err)
	}
}
