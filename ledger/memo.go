// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"fmt"
	"strings"
)

// VoteMemoPrefix starts every vote memo.
const VoteMemoPrefix = "Vote:"

// MaxCandidateIDLen keeps an encoded vote memo within the ledger's 28-byte
// text memo limit.
const MaxCandidateIDLen = 28 - len(VoteMemoPrefix)

// MemoFormat tells how a memo was recognised as a vote.
type MemoFormat int

const (
	NotAVote MemoFormat = iota
	// FormatCanonical is exactly "Vote:" followed by a valid candidate id.
	FormatCanonical
	// FormatLegacy contains "Vote:" somewhere but does not parse strictly.
	// Legacy memos are attributed by suffix match on the candidate id.
	FormatLegacy
)

// ValidCandidateID reports whether id can be carried in a vote memo.
func ValidCandidateID(id string) bool {
	if id == "" || len(id) > MaxCandidateIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}

// EncodeVoteMemo returns the canonical memo for a vote.
func EncodeVoteMemo(candidateID string) (string, error) {
	if !ValidCandidateID(candidateID) {
		return "", fmt.Errorf("candidate id %q cannot be encoded in a vote memo", candidateID)
	}
	return VoteMemoPrefix + candidateID, nil
}

// DecodeVoteMemo classifies a memo. For canonical memos the candidate id is
// returned; legacy memos return the raw memo for suffix matching.
func DecodeVoteMemo(memo string) (string, MemoFormat) {
	if !strings.Contains(memo, VoteMemoPrefix) {
		return "", NotAVote
	}
	if id, ok := strings.CutPrefix(memo, VoteMemoPrefix); ok && ValidCandidateID(id) {
		return id, FormatCanonical
	}
	return memo, FormatLegacy
}

// IsVote reports whether a memo records a vote at all.
func IsVote(memo string) bool {
	_, format := DecodeVoteMemo(memo)
	return format != NotAVote
}

// VoteFor reports whether memo records a vote for candidateID.
func VoteFor(memo, candidateID string) bool {
	if candidateID == "" {
		return false
	}
	decoded, format := DecodeVoteMemo(memo)
	switch format {
	case FormatCanonical:
		return decoded == candidateID
	case FormatLegacy:
		return strings.HasSuffix(decoded, candidateID)
	}
	return false
}
