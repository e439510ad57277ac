// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/testutil"
)

func voterBody(voterID, email, dob string) map[string]any {
	return map[string]any{
		"voterId":  voterID,
		"name":     "Voter " + voterID,
		"email":    email,
		"dob":      dob,
		"location": map[string]string{"city": "Pune", "state": "Maharashtra"},
	}
}

func TestRegisterVoter(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVoterHandler(env.cfg, env.svc)
	handler.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	_, headers := env.admin(t, models.PhaseRegistration)

	tests := []struct {
		name           string
		body           map[string]any
		expectedStatus int
		expectedMsg    string
	}{
		{"valid voter", voterBody("V1", "v1@example.com", "1990-01-01"), http.StatusCreated, ""},
		{"turns 18 today", voterBody("V2", "v2@example.com", "2007-06-01"), http.StatusCreated, ""},
		{"turns 18 tomorrow", voterBody("V3", "v3@example.com", "2007-06-02"), http.StatusBadRequest, "Voter must be at least 18 years old"},
		{"future dob", voterBody("V4", "v4@example.com", "2030-01-01"), http.StatusBadRequest, "dob cannot be in the future"},
		{"bad dob", voterBody("V5", "v5@example.com", "01/02/1990"), http.StatusBadRequest, ""},
		{"missing location", map[string]any{"voterId": "V6", "name": "X", "email": "v6@example.com", "dob": "1990-01-01"}, http.StatusBadRequest, ""},
		{"duplicate voter id", voterBody("V1", "other@example.com", "1990-01-01"), http.StatusConflict, ""},
		{"duplicate email", voterBody("V7", "V1@example.com", "1990-01-01"), http.StatusConflict, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/register-voter", tt.body, headers)
			w := env.serveAdmin(handler.Register, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedMsg != "" {
				if resp := decodeError(t, w); resp.Message != tt.expectedMsg {
					t.Errorf("Expected message %q, got %q", tt.expectedMsg, resp.Message)
				}
			}
		})
	}
}

func TestRegisterVoter_PhaseClosed(t *testing.T) {
	for _, current := range []models.Phase{models.PhaseSelectionPending, models.PhaseVoting, models.PhaseResult} {
		t.Run(string(current), func(t *testing.T) {
			env := newTestEnv(t)
			handler := NewVoterHandler(env.cfg, env.svc)
			_, headers := env.admin(t, current)

			req := testutil.MakeRequest("POST", "/register-voter", voterBody("V1", "v1@example.com", "1990-01-01"), headers)
			w := env.serveAdmin(handler.Register, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)
			if resp := decodeError(t, w); resp.Message != "Registration Phase is Closed..." {
				t.Errorf("Unexpected message %q", resp.Message)
			}
		})
	}
}

func TestListAndCountVoters(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVoterHandler(env.cfg, env.svc)
	admin, headers := env.admin(t, models.PhaseVoting)
	other, _ := env.admin(t, models.PhaseVoting)

	testutil.CreateTestVoter(t, env.db, admin.ID, "V1")
	testutil.CreateTestVoter(t, env.db, admin.ID, "V2")
	testutil.CreateTestVoter(t, env.db, other.ID, "V1")

	w := env.serveAdmin(handler.List, testutil.MakeRequest("GET", "/allvoter", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)
	var list models.VotersResponse
	testutil.AssertJSON(t, w, &list)
	if len(list.Voters) != 2 {
		t.Errorf("Expected 2 voters, got %d", len(list.Voters))
	}

	w = env.serveAdmin(handler.Count, testutil.MakeRequest("GET", "/register-votercount", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)
	var count models.CountResponse
	testutil.AssertJSON(t, w, &count)
	if count.Count != 2 {
		t.Errorf("Expected count 2, got %d", count.Count)
	}
}

func TestVoterLogin(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVoterHandler(env.cfg, env.svc)
	admin, headers := env.admin(t, models.PhaseVoting)
	other, _ := env.admin(t, models.PhaseVoting)

	testutil.CreateTestVoter(t, env.db, admin.ID, "V1")
	testutil.CreateTestVoter(t, env.db, other.ID, "V9")

	tests := []struct {
		name           string
		voterID        string
		expectedStatus int
	}{
		{"registered voter", "V1", http.StatusOK},
		{"voter of another election", "V9", http.StatusNotFound},
		{"unknown voter", "V404", http.StatusNotFound},
		{"missing voter id", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/voter-login", map[string]string{"voterId": tt.voterID}, headers)
			w := env.serveAdmin(handler.Login, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var resp models.VoterResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Voter.VoterID != tt.voterID || resp.Voter.HasVoted {
					t.Errorf("Unexpected voter %+v", resp.Voter)
				}
			}
		})
	}
}

func TestAgeOn(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		dob  time.Time
		want int
	}{
		{time.Date(2007, 3, 1, 0, 0, 0, 0, time.UTC), 18},
		{time.Date(2007, 3, 2, 0, 0, 0, 0, time.UTC), 17},
		{time.Date(2007, 2, 28, 0, 0, 0, 0, time.UTC), 18},
		{time.Date(2004, 2, 29, 0, 0, 0, 0, time.UTC), 21},
	}
	for _, tt := range tests {
		if got := ageOn(tt.dob, now); got != tt.want {
			t.Errorf("ageOn(%s) = %d, want %d", tt.dob.Format("2006-01-02"), got, tt.want)
		}
	}
}
