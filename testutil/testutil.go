// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/ledger-ballot/auth"
	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/db"
	"github.com/danielhkuo/ledger-ballot/ledger"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/phase"
)

// SetupTestDB creates a fresh SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "ballot_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              5000,
		DatabaseType:      db.DriverSQLite,
		AdminKeySalt:      "test-admin-salt",
		NetworkPassphrase: "Test SDF Network ; September 2015",
		SubmitAttempts:    3,
		ReadAttempts:      1,
		VotePolicy:        phase.PolicyStrict,
		TallyLocation:     time.UTC,
	}
}

// CreateTestAdmin inserts an admin in the given phase with a fresh Election
// Account keypair and returns it with its admin key
func CreateTestAdmin(t *testing.T, conn *sql.DB, cfg cliparse.Config, current models.Phase) (models.Admin, string) {
	t.Helper()

	address, secret, err := ledger.NewElectionKeypair()
	if err != nil {
		t.Fatalf("Failed to create keypair: %v", err)
	}
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatal(err)
	}

	admin := models.Admin{
		ID:            auth.NewRecordID(),
		Name:          "Test Admin",
		PasswordHash:  hash,
		WalletAddress: address,
		WalletSecret:  secret,
		CurrentPhase:  current,
		CreatedAt:     time.Now().UTC(),
	}
	admin.IDNo = "ID-" + admin.ID[:8]
	admin.Email = admin.ID[:8] + "@example.com"

	_, err = conn.Exec(`
		INSERT INTO admin (id, id_no, name, email, password_hash, wallet_address, wallet_secret, current_phase, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, admin.ID, admin.IDNo, admin.Name, admin.Email, admin.PasswordHash,
		admin.WalletAddress, admin.WalletSecret, string(current), admin.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	return admin, auth.GenerateAdminKey(admin.ID, cfg.AdminKeySalt)
}

// CreateTestVoter registers a voter in Delhi for the admin
func CreateTestVoter(t *testing.T, conn *sql.DB, adminID, voterID string) models.Voter {
	t.Helper()

	voter := models.Voter{
		AdminID:  adminID,
		VoterID:  voterID,
		Name:     "Voter " + voterID,
		Email:    voterID + "@example.com",
		DOB:      time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Location: models.Location{City: "Delhi", State: "Delhi"},
	}

	_, err := conn.Exec(`
		INSERT INTO voter (admin_id, voter_id, name, email, dob, city, state, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)
	`, adminID, voterID, voter.Name, voter.Email, voter.DOB.Format("2006-01-02"),
		voter.Location.City, voter.Location.State, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voter
}

// CreateTestCandidate registers a candidate for the admin in the given city
func CreateTestCandidate(t *testing.T, conn *sql.DB, adminID, candidateID, city string) models.Candidate {
	t.Helper()

	candidate := models.Candidate{
		CandidateID:   candidateID,
		AdminID:       adminID,
		Name:          "Candidate " + candidateID,
		ProfilePic:    "https://example.com/" + candidateID + ".png",
		Age:           45,
		Qualification: "Graduate",
		Location:      models.Location{City: city, State: "State"},
		Party:         "Party " + candidateID,
	}

	_, err := conn.Exec(`
		INSERT INTO candidate (candidate_id, admin_id, name, profile_pic, age, qualification, city, state, party, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, candidateID, adminID, candidate.Name, candidate.ProfilePic, candidate.Age,
		candidate.Qualification, city, candidate.Location.State, candidate.Party, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidate
}

// VoterHasVoted reads the voter's flag directly
func VoterHasVoted(t *testing.T, conn *sql.DB, adminID, voterID string) (bool, string) {
	t.Helper()

	var voted bool
	var hash sql.NullString
	err := conn.QueryRow(`SELECT has_voted, vote_tx_hash FROM voter WHERE admin_id = $1 AND voter_id = $2`,
		adminID, voterID).Scan(&voted, &hash)
	if err != nil {
		t.Fatalf("Failed to read voter: %v", err)
	}
	return voted, hash.String
}

// AdminHeaders returns the authentication headers for protected routes
func AdminHeaders(adminID, adminKey string) map[string]string {
	return map[string]string{
		"X-Admin-ID":  adminID,
		"X-Admin-Key": adminKey,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
