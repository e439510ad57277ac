// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package phase gates election operations by the administrator's current phase.
//
// The guard is a pure function of the phase value it is handed; callers fetch
// the phase from the admin record and pass it in.
package phase

import (
	"fmt"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/models"
)

// VotePolicy selects which phases permit casting a vote.
type VotePolicy string

const (
	// PolicyStrict allows voting only in the Voting phase.
	PolicyStrict VotePolicy = "strict"
	// PolicyLegacy denies voting only in Registration and Result, so
	// Selection Pending also allows it.
	PolicyLegacy VotePolicy = "legacy"
)

// ParsePolicy validates a configured vote policy.
func ParsePolicy(s string) (VotePolicy, error) {
	switch VotePolicy(s) {
	case PolicyStrict, PolicyLegacy:
		return VotePolicy(s), nil
	case "":
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("unknown vote policy %q (want strict or legacy)", s)
}

// Visibility is the read-side gate for tallies.
type Visibility int

const (
	Hidden Visibility = iota
	Live
	Final
)

// Audience distinguishes the admin dashboard from the public result page.
type Audience int

const (
	AdminAudience Audience = iota
	PublicAudience
)

var order = map[models.Phase]int{
	models.PhaseSelectionPending: 0,
	models.PhaseRegistration:     1,
	models.PhaseVoting:           2,
	models.PhaseResult:           3,
}

// Valid reports whether p is one of the four known phases.
func Valid(p models.Phase) bool {
	_, ok := order[p]
	return ok
}

// CheckRegistration allows voter and candidate creation only during Registration.
func CheckRegistration(current models.Phase) error {
	if current != models.PhaseRegistration {
		return apperr.New(apperr.Phase, "Registration Phase is Closed...")
	}
	return nil
}

// CheckVote decides whether a vote may be cast in the current phase.
func CheckVote(current models.Phase, policy VotePolicy) error {
	switch current {
	case models.PhaseRegistration:
		return apperr.New(apperr.Phase, "Voting Phase is Not Yet Started...")
	case models.PhaseResult:
		return apperr.New(apperr.Phase, "Voting Phase is Closed...")
	case models.PhaseVoting:
		return nil
	}
	if policy == PolicyLegacy {
		return nil
	}
	return apperr.New(apperr.Phase, "Voting Phase is Not Yet Started...")
}

// ResultVisibility returns how tallies may be shown, and the message to show
// when they are hidden.
func ResultVisibility(current models.Phase, audience Audience) (Visibility, string) {
	switch current {
	case models.PhaseResult:
		return Final, ""
	case models.PhaseVoting:
		if audience == PublicAudience {
			return Hidden, "Voting is Ongoing..."
		}
		return Live, ""
	case models.PhaseRegistration:
		return Hidden, "Registration Phase is in Progress..."
	default:
		// Admins only lose sight of the tally while the rolls are open
		if audience == AdminAudience {
			return Live, ""
		}
		return Hidden, "Election has not started yet..."
	}
}

// CheckTransition allows only a single step forward along
// Selection Pending → Registration → Voting → Result.
func CheckTransition(from, to models.Phase) error {
	if !Valid(to) {
		return apperr.New(apperr.Validation, fmt.Sprintf("Unknown phase %q", to))
	}
	if from == to {
		return apperr.New(apperr.Validation, fmt.Sprintf("Election is already in %s phase", to))
	}
	if order[to] != order[from]+1 {
		return apperr.New(apperr.Phase, fmt.Sprintf("Cannot move from %s to %s", from, to))
	}
	return nil
}
