// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/testutil"
)

// TestConcurrentVotes verifies that simultaneous votes from different voters
// of one election all land, each with its own ledger sequence number
func TestConcurrentVotes(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVotingHandler(env.cfg, env.svc)
	admin, headers := env.admin(t, models.PhaseVoting)
	testutil.CreateTestCandidate(t, env.db, admin.ID, "CAND1", "Delhi")
	testutil.CreateTestCandidate(t, env.db, admin.ID, "CAND2", "Delhi")

	numVoters := 10
	for i := 0; i < numVoters; i++ {
		testutil.CreateTestVoter(t, env.db, admin.ID, fmt.Sprintf("V%02d", i))
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			body := map[string]string{
				"voterId":     fmt.Sprintf("V%02d", voterIdx),
				"candidateId": fmt.Sprintf("CAND%d", voterIdx%2+1),
			}
			w := env.serveAdmin(handler.CastVote, testutil.MakeRequest("POST", "/cast-vote", body, headers))
			if w.Code == http.StatusOK {
				successCount.Add(1)
			} else {
				t.Errorf("Voter %d got status %d: %s", voterIdx, w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if got := successCount.Load(); got != int32(numVoters) {
		t.Errorf("Expected %d successful votes, got %d", numVoters, got)
	}

	history := env.fake.Transactions(admin.WalletAddress)
	if len(history) != numVoters {
		t.Errorf("Expected %d ledger transactions, got %d", numVoters, len(history))
	}

	var voted int
	if err := env.db.QueryRow(`SELECT COUNT(*) FROM voter WHERE admin_id = $1 AND has_voted = TRUE`, admin.ID).Scan(&voted); err != nil {
		t.Fatal(err)
	}
	if voted != numVoters {
		t.Errorf("Expected %d voters flagged, got %d", numVoters, voted)
	}
}

// TestConcurrentDoubleVote verifies that one voter hammering the endpoint
// lands exactly one vote
func TestConcurrentDoubleVote(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVotingHandler(env.cfg, env.svc)
	admin, headers := env.admin(t, models.PhaseVoting)
	testutil.CreateTestVoter(t, env.db, admin.ID, "V1")
	testutil.CreateTestCandidate(t, env.db, admin.ID, "CAND1", "Delhi")

	attempts := 10
	var successCount, rejectedCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			body := map[string]string{"voterId": "V1", "candidateId": "CAND1"}
			w := env.serveAdmin(handler.CastVote, testutil.MakeRequest("POST", "/cast-vote", body, headers))
			switch w.Code {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusBadRequest:
				rejectedCount.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}

	wg.Wait()

	if got := successCount.Load(); got != 1 {
		t.Errorf("Expected exactly 1 successful vote, got %d", got)
	}
	if got := rejectedCount.Load(); got != int32(attempts-1) {
		t.Errorf("Expected %d rejected attempts, got %d", attempts-1, got)
	}
	if n := len(env.fake.Transactions(admin.WalletAddress)); n != 1 {
		t.Errorf("Expected 1 ledger transaction, got %d", n)
	}
}

// TestConcurrentElections verifies that votes in different elections do not
// wait on each other's locks or share sequence numbers
func TestConcurrentElections(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVotingHandler(env.cfg, env.svc)

	numElections := 4
	admins := make([]models.Admin, numElections)
	headers := make([]map[string]string, numElections)
	for i := range admins {
		admins[i], headers[i] = env.admin(t, models.PhaseVoting)
		testutil.CreateTestCandidate(t, env.db, admins[i].ID, fmt.Sprintf("E%d-CAND", i), "Delhi")
		testutil.CreateTestVoter(t, env.db, admins[i].ID, "V1")
		testutil.CreateTestVoter(t, env.db, admins[i].ID, "V2")
	}

	var wg sync.WaitGroup
	for i := range admins {
		for _, voterID := range []string{"V1", "V2"} {
			wg.Add(1)
			go func(idx int, voterID string) {
				defer wg.Done()
				body := map[string]string{"voterId": voterID, "candidateId": fmt.Sprintf("E%d-CAND", idx)}
				w := env.serveAdmin(handler.CastVote, testutil.MakeRequest("POST", "/cast-vote", body, headers[idx]))
				if w.Code != http.StatusOK {
					t.Errorf("Election %d voter %s got status %d: %s", idx, voterID, w.Code, w.Body.String())
				}
			}(i, voterID)
		}
	}

	wg.Wait()

	for i, admin := range admins {
		if n := len(env.fake.Transactions(admin.WalletAddress)); n != 2 {
			t.Errorf("Election %d: expected 2 ledger transactions, got %d", i, n)
		}
	}
}
