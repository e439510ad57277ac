// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/ledger-ballot/activity"
	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/testutil"
)

type testEnv struct {
	db   *sql.DB
	cfg  cliparse.Config
	fake *testutil.FakeLedger
	svc  Services
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	fake := testutil.NewFakeLedger()

	return testEnv{
		db:   conn,
		cfg:  cfg,
		fake: fake,
		svc:  NewServices(conn, cfg, fake, activity.New(activity.NewSQLSink(conn))),
	}
}

// admin creates an admin whose Election Account exists on the fake ledger
func (e testEnv) admin(t *testing.T, current models.Phase) (models.Admin, map[string]string) {
	t.Helper()
	admin, key := testutil.CreateTestAdmin(t, e.db, e.cfg, current)
	e.fake.AddAccount(admin.WalletAddress, 100)
	return admin, testutil.AdminHeaders(admin.ID, key)
}

// serveAdmin runs h behind admin authentication
func (e testEnv) serveAdmin(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	middleware.RequireAdmin(e.cfg.AdminKeySalt, h)(w, req)
	return w
}

func (e testEnv) activityCount(t *testing.T, action, status string) int {
	t.Helper()
	var n int
	err := e.db.QueryRow(`SELECT COUNT(*) FROM activity_log WHERE action = $1 AND status = $2`, action, status).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count activity: %v", err)
	}
	return n
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}
