// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/testutil"
)

// TestFullElectionWorkflow drives one election from admin registration to
// published results using only the HTTP handlers
func TestFullElectionWorkflow(t *testing.T) {
	env := newTestEnv(t)
	admins := NewAdminHandler(env.cfg, env.svc)
	election := NewElectionHandler(env.cfg, env.svc)
	voters := NewVoterHandler(env.cfg, env.svc)
	candidates := NewCandidateHandler(env.cfg, env.svc)
	voting := NewVotingHandler(env.cfg, env.svc)
	results := NewResultsHandler(env.cfg, env.svc)

	// Step 1: Register and log in the admin
	w := httptest.NewRecorder()
	admins.Register(w, testutil.MakeRequest("POST", "/admin-register", map[string]string{
		"id_no": "EC-100", "name": "Returning Officer", "email": "ro@example.com", "password": "s3cret-pass",
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	admins.Login(w, testutil.MakeRequest("POST", "/admin-login", map[string]string{
		"id_no": "EC-100", "password": "s3cret-pass",
	}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var login models.LoginResponse
	testutil.AssertJSON(t, w, &login)
	headers := testutil.AdminHeaders(login.AdminID, login.AdminKey)

	changePhase := func(to models.Phase) {
		t.Helper()
		req := testutil.MakeRequest("POST", "/changephase", map[string]string{"currentPhase": string(to)}, headers)
		testutil.AssertStatus(t, env.serveAdmin(election.ChangePhase, req), http.StatusOK)
	}

	// Step 2: Open registration and enrol the electorate
	changePhase(models.PhaseRegistration)

	for _, id := range []string{"ALPHA", "BRAVO", "CHARLIE"} {
		body := candidateBody(id, 40)
		testutil.AssertStatus(t, env.serveAdmin(candidates.Register,
			testutil.MakeRequest("POST", "/register-candidate", body, headers)), http.StatusCreated)
	}
	for _, id := range []string{"V1", "V2", "V3", "V4", "V5"} {
		body := voterBody(id, id+"@example.com", "1985-07-04")
		testutil.AssertStatus(t, env.serveAdmin(voters.Register,
			testutil.MakeRequest("POST", "/register-voter", body, headers)), http.StatusCreated)
	}

	// Voting must not start during registration
	early := testutil.MakeRequest("POST", "/cast-vote", map[string]string{"voterId": "V1", "candidateId": "ALPHA"}, headers)
	testutil.AssertStatus(t, env.serveAdmin(voting.CastVote, early), http.StatusBadRequest)

	// Step 3: Open voting and cast ballots
	changePhase(models.PhaseVoting)

	ballots := map[string]string{"V1": "BRAVO", "V2": "BRAVO", "V3": "ALPHA", "V4": "BRAVO", "V5": "ALPHA"}
	for voterID, candidateID := range ballots {
		req := testutil.MakeRequest("POST", "/cast-vote", map[string]string{"voterId": voterID, "candidateId": candidateID}, headers)
		testutil.AssertStatus(t, env.serveAdmin(voting.CastVote, req), http.StatusOK)
	}

	// Registration closes once voting opens
	late := testutil.MakeRequest("POST", "/register-voter", voterBody("V6", "v6@example.com", "1985-07-04"), headers)
	testutil.AssertStatus(t, env.serveAdmin(voters.Register, late), http.StatusBadRequest)

	// The public sees nothing yet
	w = httptest.NewRecorder()
	results.PublicResult(w, testutil.MakeRequest("GET", "/public-result?adminId="+login.AdminID, nil, nil))
	var sealed models.MessageResponse
	testutil.AssertJSON(t, w, &sealed)
	if sealed.Message != "Voting is Ongoing..." {
		t.Errorf("Expected sealed results, got %+v", sealed)
	}

	// Step 4: Close voting and publish
	changePhase(models.PhaseResult)

	w = httptest.NewRecorder()
	results.PublicResult(w, testutil.MakeRequest("GET", "/public-result?adminId="+login.AdminID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var final models.ResultResponse
	testutil.AssertJSON(t, w, &final)

	want := map[string]int{"ALPHA": 2, "BRAVO": 3, "CHARLIE": 0}
	if len(final.AllCandidates) != len(want) {
		t.Fatalf("Expected %d candidates, got %d", len(want), len(final.AllCandidates))
	}
	for _, c := range final.AllCandidates {
		if c.VoteCount != want[c.CandidateID] {
			t.Errorf("%s: expected %d votes, got %d", c.CandidateID, want[c.CandidateID], c.VoteCount)
		}
	}
	if final.TopCandidates[0].CandidateID != "BRAVO" {
		t.Errorf("Expected BRAVO to lead, got %s", final.TopCandidates[0].CandidateID)
	}

	w = env.serveAdmin(results.TotalVotes, testutil.MakeRequest("GET", "/total-votes", nil, headers))
	var total models.TotalVotesResponse
	testutil.AssertJSON(t, w, &total)
	if total.TotalVotes != len(ballots) {
		t.Errorf("Expected %d total votes, got %d", len(ballots), total.TotalVotes)
	}

	voted, err := env.svc.Store.CountVoted(context.Background(), login.AdminID)
	if err != nil {
		t.Fatal(err)
	}
	if voted != len(ballots) {
		t.Errorf("Expected %d voters flagged, got %d", len(ballots), voted)
	}
}

// TestElectionsAreIsolated verifies that one admin's voters and candidates
// are invisible to another admin
func TestElectionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	voting := NewVotingHandler(env.cfg, env.svc)
	results := NewResultsHandler(env.cfg, env.svc)

	first, firstHeaders := env.admin(t, models.PhaseVoting)
	second, secondHeaders := env.admin(t, models.PhaseVoting)
	testutil.CreateTestVoter(t, env.db, first.ID, "V1")
	testutil.CreateTestCandidate(t, env.db, first.ID, "FIRST", "Delhi")
	testutil.CreateTestCandidate(t, env.db, second.ID, "SECOND", "Delhi")

	// A voter from the first election cannot vote in the second
	req := testutil.MakeRequest("POST", "/cast-vote", map[string]string{"voterId": "V1", "candidateId": "SECOND"}, secondHeaders)
	testutil.AssertStatus(t, env.serveAdmin(voting.CastVote, req), http.StatusNotFound)

	// Nor for a candidate of the second election
	req = testutil.MakeRequest("POST", "/cast-vote", map[string]string{"voterId": "V1", "candidateId": "SECOND"}, firstHeaders)
	testutil.AssertStatus(t, env.serveAdmin(voting.CastVote, req), http.StatusNotFound)

	req = testutil.MakeRequest("POST", "/cast-vote", map[string]string{"voterId": "V1", "candidateId": "FIRST"}, firstHeaders)
	testutil.AssertStatus(t, env.serveAdmin(voting.CastVote, req), http.StatusOK)

	w := env.serveAdmin(results.TotalVotes, testutil.MakeRequest("GET", "/total-votes", nil, secondHeaders))
	var total models.TotalVotesResponse
	testutil.AssertJSON(t, w, &total)
	if total.TotalVotes != 0 {
		t.Errorf("Second election saw %d votes", total.TotalVotes)
	}
	if n := len(env.fake.Transactions(second.WalletAddress)); n != 0 {
		t.Errorf("Second election account has %d transactions", n)
	}
}
