// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/testutil"
)

func TestAdmins(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	admin := models.Admin{
		ID:            "admin-1",
		IDNo:          "ID-1",
		Name:          "Alice",
		Email:         "alice@example.com",
		PasswordHash:  "hash",
		WalletAddress: "GADDR1",
		WalletSecret:  "SSECRET1",
	}
	if err := s.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin() error = %v", err)
	}

	got, err := s.FindAdmin(ctx, "admin-1")
	if err != nil {
		t.Fatalf("FindAdmin() error = %v", err)
	}
	if got.CurrentPhase != models.PhaseSelectionPending {
		t.Errorf("Expected new admin in %q, got %q", models.PhaseSelectionPending, got.CurrentPhase)
	}
	if got.WalletSecret != "SSECRET1" || got.IDNo != "ID-1" {
		t.Errorf("Unexpected admin %+v", got)
	}

	if _, err := s.FindAdminByIDNo(ctx, "ID-1"); err != nil {
		t.Errorf("FindAdminByIDNo() error = %v", err)
	}
	if _, err := s.FindAdmin(ctx, "missing"); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}

	dup := admin
	dup.ID = "admin-2"
	dup.WalletAddress = "GADDR2"
	if err := s.CreateAdmin(ctx, dup); !apperr.Is(err, apperr.Conflict) {
		t.Errorf("Expected Conflict for duplicate id_no, got %v", err)
	}

	admins, err := s.ListAdmins(ctx)
	if err != nil || len(admins) != 1 {
		t.Errorf("ListAdmins() = %d admins, err %v", len(admins), err)
	}
}

func TestSetPhase(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	admin, _ := testutil.CreateTestAdmin(t, conn, cfg, models.PhaseRegistration)
	s := New(conn)
	ctx := context.Background()

	if err := s.SetPhase(ctx, admin.ID, models.PhaseRegistration, models.PhaseVoting); err != nil {
		t.Fatalf("SetPhase() error = %v", err)
	}
	current, err := s.CurrentPhase(ctx, admin.ID)
	if err != nil || current != models.PhaseVoting {
		t.Errorf("CurrentPhase() = %q, %v", current, err)
	}

	// Stale from value
	err = s.SetPhase(ctx, admin.ID, models.PhaseRegistration, models.PhaseVoting)
	if !apperr.Is(err, apperr.Conflict) {
		t.Errorf("Expected Conflict for stale phase, got %v", err)
	}

	err = s.SetPhase(ctx, "missing", models.PhaseVoting, models.PhaseResult)
	if !apperr.Is(err, apperr.NotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

func TestVoters(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	admin, _ := testutil.CreateTestAdmin(t, conn, cfg, models.PhaseRegistration)
	other, _ := testutil.CreateTestAdmin(t, conn, cfg, models.PhaseRegistration)
	s := New(conn)
	ctx := context.Background()

	voter := models.Voter{
		AdminID:  admin.ID,
		VoterID:  "V1",
		Name:     "Bob",
		Email:    "bob@example.com",
		DOB:      time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		Location: models.Location{City: "Pune", State: "MH"},
	}
	if err := s.CreateVoter(ctx, voter); err != nil {
		t.Fatalf("CreateVoter() error = %v", err)
	}

	tests := []struct {
		name  string
		mod   func(v *models.Voter)
		wantK apperr.Kind
		ok    bool
	}{
		{"same id same admin", func(v *models.Voter) { v.Email = "x@example.com" }, apperr.Conflict, false},
		{"same email same admin", func(v *models.Voter) { v.VoterID = "V2" }, apperr.Conflict, false},
		{"same id other admin", func(v *models.Voter) { v.AdminID = other.ID }, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := voter
			tt.mod(&v)
			err := s.CreateVoter(ctx, v)
			if tt.ok {
				if err != nil {
					t.Errorf("CreateVoter() error = %v", err)
				}
				return
			}
			if !apperr.Is(err, tt.wantK) {
				t.Errorf("Expected %v, got %v", tt.wantK, err)
			}
		})
	}

	got, err := s.FindVoter(ctx, admin.ID, "V1")
	if err != nil {
		t.Fatalf("FindVoter() error = %v", err)
	}
	if !got.DOB.Equal(voter.DOB) || got.Location.City != "Pune" || got.HasVoted {
		t.Errorf("Unexpected voter %+v", got)
	}

	if _, err := s.FindVoter(ctx, admin.ID, "missing"); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}

	n, err := s.CountVoters(ctx, admin.ID)
	if err != nil || n != 1 {
		t.Errorf("CountVoters() = %d, %v", n, err)
	}
	list, err := s.ListVoters(ctx, admin.ID)
	if err != nil || len(list) != 1 {
		t.Errorf("ListVoters() = %d, %v", len(list), err)
	}
}

func TestCompleteVote_Monotonic(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	admin, _ := testutil.CreateTestAdmin(t, conn, cfg, models.PhaseVoting)
	testutil.CreateTestVoter(t, conn, admin.ID, "V1")
	s := New(conn)
	ctx := context.Background()

	flipped, err := s.CompleteVote(ctx, admin.ID, "V1", "hash-1")
	if err != nil || !flipped {
		t.Fatalf("CompleteVote() = %v, %v", flipped, err)
	}

	flipped, err = s.CompleteVote(ctx, admin.ID, "V1", "hash-2")
	if err != nil {
		t.Fatal(err)
	}
	if flipped {
		t.Error("Second CompleteVote should not flip the flag again")
	}

	voted, hash := testutil.VoterHasVoted(t, conn, admin.ID, "V1")
	if !voted || hash != "hash-1" {
		t.Errorf("Expected voted with hash-1, got %v %q", voted, hash)
	}

	n, err := s.CountVoted(ctx, admin.ID)
	if err != nil || n != 1 {
		t.Errorf("CountVoted() = %d, %v", n, err)
	}
}

func TestCandidates(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	admin, _ := testutil.CreateTestAdmin(t, conn, cfg, models.PhaseRegistration)
	other, _ := testutil.CreateTestAdmin(t, conn, cfg, models.PhaseRegistration)
	s := New(conn)
	ctx := context.Background()

	c := models.Candidate{
		CandidateID:   "CAND1",
		AdminID:       admin.ID,
		Name:          "Carol",
		ProfilePic:    "pic",
		Age:           40,
		Qualification: "PhD",
		Location:      models.Location{City: "Pune", State: "MH"},
		Party:         "Blue",
	}
	if err := s.CreateCandidate(ctx, c); err != nil {
		t.Fatalf("CreateCandidate() error = %v", err)
	}

	// Candidate ids are global
	dup := c
	dup.AdminID = other.ID
	if err := s.CreateCandidate(ctx, dup); !apperr.Is(err, apperr.Conflict) {
		t.Errorf("Expected Conflict, got %v", err)
	}

	c2 := c
	c2.CandidateID = "CAND2"
	c2.Location.City = "Mumbai"
	if err := s.CreateCandidate(ctx, c2); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListCandidates(ctx, admin.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListCandidates() = %d, %v", len(list), err)
	}
	if list[0].CandidateID != "CAND1" || list[1].CandidateID != "CAND2" {
		t.Errorf("Expected registration order, got %s, %s", list[0].CandidateID, list[1].CandidateID)
	}

	byCity, err := s.ListCandidatesByCity(ctx, admin.ID, "Mumbai")
	if err != nil || len(byCity) != 1 || byCity[0].CandidateID != "CAND2" {
		t.Errorf("ListCandidatesByCity() = %+v, %v", byCity, err)
	}

	n, err := s.CountCandidates(ctx, admin.ID)
	if err != nil || n != 2 {
		t.Errorf("CountCandidates() = %d, %v", n, err)
	}

	got, err := s.FindCandidate(ctx, "CAND2")
	if err != nil || got.AdminID != admin.ID {
		t.Errorf("FindCandidate() = %+v, %v", got, err)
	}
	if _, err := s.FindCandidate(ctx, "nope"); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

func TestIntents(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	admin, _ := testutil.CreateTestAdmin(t, conn, cfg, models.PhaseVoting)
	testutil.CreateTestVoter(t, conn, admin.ID, "V1")
	s := New(conn)
	ctx := context.Background()

	expires := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	in := models.VoteIntent{AdminID: admin.ID, VoterID: "V1", CandidateID: "CAND1", TxHash: "h1", ExpiresAt: expires}
	if err := s.CreateIntent(ctx, in); err != nil {
		t.Fatalf("CreateIntent() error = %v", err)
	}

	second := in
	second.TxHash = "h2"
	if err := s.CreateIntent(ctx, second); !apperr.Is(err, apperr.VotePending) {
		t.Errorf("Expected VotePending, got %v", err)
	}

	got, found, err := s.FindIntent(ctx, admin.ID, "V1")
	if err != nil || !found {
		t.Fatalf("FindIntent() found=%v err=%v", found, err)
	}
	if got.TxHash != "h1" || !got.ExpiresAt.Equal(expires) {
		t.Errorf("Unexpected intent %+v", got)
	}

	// A stale hash must not remove the current intent
	if err := s.DeleteIntent(ctx, admin.ID, "V1", "h2"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := s.FindIntent(ctx, admin.ID, "V1"); !found {
		t.Error("DeleteIntent with another hash removed the intent")
	}

	list, err := s.ListIntents(ctx)
	if err != nil || len(list) != 1 {
		t.Errorf("ListIntents() = %d, %v", len(list), err)
	}

	flipped, err := s.CompleteVote(ctx, admin.ID, "V1", "h1")
	if err != nil || !flipped {
		t.Fatalf("CompleteVote() = %v, %v", flipped, err)
	}
	if _, found, _ := s.FindIntent(ctx, admin.ID, "V1"); found {
		t.Error("CompleteVote should remove the intent")
	}
	if voted, hash := testutil.VoterHasVoted(t, conn, admin.ID, "V1"); !voted || hash != "h1" {
		t.Errorf("Expected voter marked with h1, got %v %q", voted, hash)
	}
}
