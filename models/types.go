// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Phase is the administrator-controlled election stage.
type Phase string

// Phase constants, in transition order
const (
	PhaseSelectionPending Phase = "Selection Pending"
	PhaseRegistration     Phase = "Registration"
	PhaseVoting           Phase = "Voting"
	PhaseResult           Phase = "Result"
)

// Activity log statuses
const (
	ActivitySuccess = "success"
	ActivityFailed  = "failed"
)

// Activity actions
const (
	ActionCastVote            = "cast_vote"
	ActionChangePhase         = "change_election_phase"
	ActionCandidateRegistered = "candidate_registration"
	ActionVoterRegistered     = "voter_registration"
	ActionAdminRegistered     = "admin_registration"
	ActionLogin               = "login"
	ActionVoteReconciled      = "vote_reconciled"
)

// Domain types

// Admin owns exactly one Election Account for its lifetime.
type Admin struct {
	ID            string    `json:"_id"`
	IDNo          string    `json:"id_no"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // Never expose in JSON
	WalletAddress string    `json:"walletAddress"`
	WalletSecret  string    `json:"-"` // Never expose in JSON
	CurrentPhase  Phase     `json:"currentPhase"`
	CreatedAt     time.Time `json:"created_at"`
}

// ElectionAccount returns the admin's ledger credentials.
func (a Admin) ElectionAccount() ElectionAccount {
	return ElectionAccount{AdminID: a.ID, Address: a.WalletAddress, Secret: a.WalletSecret}
}

type ElectionAccount struct {
	AdminID string
	Address string
	Secret  string
}

type Location struct {
	City  string `json:"city" validate:"required"`
	State string `json:"state" validate:"required"`
}

type Voter struct {
	AdminID           string    `json:"admin"`
	VoterID           string    `json:"voterId"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	DOB               time.Time `json:"dob"`
	Location          Location  `json:"location"`
	HasVoted          bool      `json:"voteCast"`
	VoteTransactionID string    `json:"voteTransactionId,omitempty"`
}

type Candidate struct {
	CandidateID   string   `json:"candidateId"`
	AdminID       string   `json:"admin"`
	Name          string   `json:"name"`
	ProfilePic    string   `json:"profilePic"`
	Age           int      `json:"age"`
	Qualification string   `json:"qualification"`
	Location      Location `json:"location"`
	Party         string   `json:"party"`
}

// VoteIntent is the write-ahead record of a signed vote transaction whose
// outcome is not yet known locally.
type VoteIntent struct {
	AdminID     string    `json:"admin_id"`
	VoterID     string    `json:"voter_id"`
	CandidateID string    `json:"candidate_id"`
	TxHash      string    `json:"tx_hash"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ActivityEntry struct {
	ID        string         `json:"id" bson:"_id"`
	AdminID   string         `json:"admin_id" bson:"admin_id"`
	Action    string         `json:"action" bson:"action"`
	Status    string         `json:"status" bson:"status"`
	IPAddress string         `json:"ip_address" bson:"ip_address"`
	UserAgent string         `json:"user_agent" bson:"user_agent"`
	Metadata  map[string]any `json:"metadata" bson:"metadata"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

// Request types

type RegisterAdminRequest struct {
	IDNo     string `json:"id_no" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	IDNo     string `json:"id_no" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePhaseRequest struct {
	CurrentPhase Phase `json:"currentPhase" validate:"required"`
}

type RegisterVoterRequest struct {
	VoterID  string   `json:"voterId" validate:"required,max=64"`
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	DOB      string   `json:"dob" validate:"required,datetime=2006-01-02"`
	Location Location `json:"location" validate:"required"`
}

type RegisterCandidateRequest struct {
	CandidateID   string   `json:"candidateId" validate:"required,max=23"`
	Name          string   `json:"name" validate:"required"`
	ProfilePic    string   `json:"profilePic" validate:"required"`
	Age           int      `json:"age" validate:"required"`
	Qualification string   `json:"qualification" validate:"required"`
	Location      Location `json:"location" validate:"required"`
	Party         string   `json:"party" validate:"required"`
}

type VoterLookupRequest struct {
	VoterID string `json:"voterId" validate:"required"`
}

type CastVoteRequest struct {
	VoterID     string `json:"voterId" validate:"required"`
	CandidateID string `json:"candidateId" validate:"required"`
}

// Response types

type ActivityLogResponse struct {
	Success bool            `json:"Success"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Entries []ActivityEntry `json:"entries"`
}

type MessageResponse struct {
	Success bool   `json:"Success"`
	Message string `json:"message"`
}

type RegisterAdminResponse struct {
	Success       bool   `json:"Success"`
	Message       string `json:"message"`
	AdminID       string `json:"admin_id"`
	WalletAddress string `json:"walletAddress"`
}

type LoginResponse struct {
	Success       bool   `json:"Success"`
	Message       string `json:"message"`
	AdminID       string `json:"admin_id"`
	AdminKey      string `json:"admin_key"`
	WalletAddress string `json:"walletAddress"`
}

type PhaseResponse struct {
	Success      bool  `json:"Success"`
	CurrentPhase Phase `json:"currentPhase"`
}

// PublicAdmin is the listing view of an admin, used by voters to pick an election.
type PublicAdmin struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	WalletAddress string `json:"walletAddress"`
	CurrentPhase  Phase  `json:"currentPhase"`
}

type AdminsResponse struct {
	Success bool          `json:"Success"`
	Admins  []PublicAdmin `json:"admins"`
}

type AdminDetailsResponse struct {
	Success bool  `json:"Success"`
	Admin   Admin `json:"adminDetails"`
}

type VoterResponse struct {
	Success bool   `json:"Success"`
	Message string `json:"message"`
	Voter   Voter  `json:"voter"`
}

type VotersResponse struct {
	Success bool    `json:"Success"`
	Voters  []Voter `json:"voters"`
}

type CandidateResponse struct {
	Success   bool      `json:"Success"`
	Message   string    `json:"message"`
	Candidate Candidate `json:"candidateDetails"`
}

type CandidatesResponse struct {
	Success    bool        `json:"Success"`
	Candidates []Candidate `json:"candidates"`
}

// PublicCandidate is the display-only view of a candidate.
type PublicCandidate struct {
	Name          string   `json:"name"`
	Party         string   `json:"party"`
	Age           int      `json:"age"`
	Qualification string   `json:"qualification"`
	Location      Location `json:"location"`
	Profile       string   `json:"profile"`
}

type PublicCandidatesResponse struct {
	Success    bool              `json:"Success"`
	Candidates []PublicCandidate `json:"candidates"`
}

type CountResponse struct {
	Success bool `json:"Success"`
	Count   int  `json:"count"`
}

type CastVoteResponse struct {
	Success bool   `json:"Success"`
	Message string `json:"message"`
	Hash    string `json:"hash"`
}

type CandidateVotes struct {
	CandidateID string   `json:"candidateId"`
	Name        string   `json:"name"`
	Party       string   `json:"party"`
	Location    Location `json:"location"`
	VoteCount   int      `json:"voteCount"`
}

type ResultResponse struct {
	Success       bool             `json:"Success"`
	Final         bool             `json:"final"`
	TopCandidates []CandidateVotes `json:"top5Candidates"`
	AllCandidates []CandidateVotes `json:"allCandidates"`
}

type HourlyResponse struct {
	Success     bool    `json:"Success"`
	Filter      string  `json:"filter"`
	HourlyVotes [24]int `json:"hourlyVotes"`
}

type TotalVotesResponse struct {
	Success    bool `json:"Success"`
	TotalVotes int  `json:"totalVotes"`
}

// Error response

type ErrorResponse struct {
	Success        bool     `json:"Success"`
	Error          string   `json:"error"`
	Message        string   `json:"message,omitempty"`
	ResultCode     string   `json:"resultCode,omitempty"`
	OperationCodes []string `json:"operationCodes,omitempty"`
}
