// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally recomputes election results by replaying an Election
// Account's ledger history. No counter is stored; every call re-reads the
// full history.
package tally

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/danielhkuo/ledger-ballot/ledger"
	"github.com/danielhkuo/ledger-ballot/models"
)

// TopN is the number of leading candidates reported with a tally.
const TopN = 5

// Source is satisfied by *ledger.Client.
type Source interface {
	AllTransactions(ctx context.Context, address string) ([]ledger.TransactionRecord, error)
}

// Result is a replayed tally. All keeps the order of the candidate list.
type Result struct {
	All []models.CandidateVotes
	Top []models.CandidateVotes
}

type Engine struct {
	source Source
	loc    *time.Location
	now    func() time.Time
}

func New(source Source, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{source: source, loc: loc, now: time.Now}
}

// Tally counts the votes recorded for each candidate.
func (e *Engine) Tally(ctx context.Context, address string, candidates []models.Candidate) (Result, error) {
	records, err := e.source.AllTransactions(ctx, address)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch ledger history: %w", err)
	}
	all := Count(records, candidates)
	return Result{All: all, Top: Top(all, TopN)}, nil
}

// Hourly buckets the votes inside the preset's date range by hour of day.
func (e *Engine) Hourly(ctx context.Context, address, filter string) ([24]int, error) {
	preset, err := ParsePreset(filter)
	if err != nil {
		return [24]int{}, err
	}
	records, err := e.source.AllTransactions(ctx, address)
	if err != nil {
		return [24]int{}, fmt.Errorf("failed to fetch ledger history: %w", err)
	}
	return Histogram(records, RangeFor(preset, e.now(), e.loc), e.loc), nil
}

// TotalVotes counts every vote on the account regardless of candidate.
func (e *Engine) TotalVotes(ctx context.Context, address string) (int, error) {
	records, err := e.source.AllTransactions(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch ledger history: %w", err)
	}
	return Total(records), nil
}

func counted(rec ledger.TransactionRecord) bool {
	return rec.Successful && ledger.IsVote(rec.Memo)
}

// Count returns one entry per candidate, in candidate order. A record counts
// toward a candidate when its memo is a vote for that candidate id.
func Count(records []ledger.TransactionRecord, candidates []models.Candidate) []models.CandidateVotes {
	votes := make([]models.CandidateVotes, len(candidates))
	for i, c := range candidates {
		votes[i] = models.CandidateVotes{
			CandidateID: c.CandidateID,
			Name:        c.Name,
			Party:       c.Party,
			Location:    c.Location,
		}
	}

	for _, rec := range records {
		if !counted(rec) {
			continue
		}
		for i := range votes {
			if ledger.VoteFor(rec.Memo, votes[i].CandidateID) {
				votes[i].VoteCount++
			}
		}
	}
	return votes
}

// Top returns the n entries with the most votes. Ties keep their input order.
func Top(votes []models.CandidateVotes, n int) []models.CandidateVotes {
	sorted := slices.Clone(votes)
	slices.SortStableFunc(sorted, func(a, b models.CandidateVotes) int {
		return b.VoteCount - a.VoteCount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Histogram counts votes per hour of day in loc for records inside r.
func Histogram(records []ledger.TransactionRecord, r Range, loc *time.Location) [24]int {
	var buckets [24]int
	for _, rec := range records {
		if !counted(rec) {
			continue
		}
		t := rec.CreatedAt.In(loc)
		if r.Contains(t) {
			buckets[t.Hour()]++
		}
	}
	return buckets
}

// Total counts vote records.
func Total(records []ledger.TransactionRecord) int {
	n := 0
	for _, rec := range records {
		if counted(rec) {
			n++
		}
	}
	return n
}
