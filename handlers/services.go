// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/ledger-ballot/activity"
	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/ledger"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/recorder"
	"github.com/danielhkuo/ledger-ballot/store"
	"github.com/danielhkuo/ledger-ballot/tally"
)

// Services are the collaborators shared by the handlers.
type Services struct {
	Store    *store.Store
	Ledger   *ledger.Client
	Recorder *recorder.Recorder
	Tally    *tally.Engine
	Activity *activity.Log
}

func NewServices(db *sql.DB, cfg cliparse.Config, network ledger.Network, log *activity.Log) Services {
	s := store.New(db)
	client := ledger.NewClient(network, cfg.ReadAttempts)
	return Services{
		Store:  s,
		Ledger: client,
		Recorder: recorder.New(s, client, recorder.Config{
			Passphrase:     cfg.NetworkPassphrase,
			Policy:         cfg.VotePolicy,
			SubmitAttempts: cfg.SubmitAttempts,
		}),
		Tally:    tally.New(client, cfg.TallyLocation),
		Activity: log,
	}
}

// currentAdmin loads the admin authenticated by middleware.RequireAdmin
func currentAdmin(r *http.Request, s *store.Store) (models.Admin, error) {
	adminID, ok := middleware.AdminID(r.Context())
	if !ok {
		return models.Admin{}, apperr.New(apperr.Unauthorized, "Admin authentication required")
	}
	admin, err := s.FindAdmin(r.Context(), adminID)
	if apperr.Is(err, apperr.NotFound) {
		return models.Admin{}, apperr.New(apperr.Unauthorized, "Admin not found")
	}
	return admin, err
}
