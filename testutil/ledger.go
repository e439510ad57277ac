// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/danielhkuo/ledger-ballot/ledger"
)

type submitOutcome struct {
	rejectCode string
	opCodes    []string
	fail       bool
	commit     bool
}

// FakeLedger is an in-memory ledger.Network. It enforces per-account
// sequence numbers like the real network and can be scripted to reject,
// fail, or lose the response of upcoming submissions.
type FakeLedger struct {
	mu       sync.Mutex
	seq      map[string]int64
	history  map[string][]ledger.TransactionRecord // newest first
	byHash   map[string]ledger.TransactionRecord
	outcomes []submitOutcome
	loadHook func()

	Submissions int
	Loads       int
	PageFetches int
	Funded      []string
	Now         func() time.Time
}

func NewFakeLedger() *FakeLedger {
	return &FakeLedger{
		seq:     make(map[string]int64),
		history: make(map[string][]ledger.TransactionRecord),
		byHash:  make(map[string]ledger.TransactionRecord),
		Now:     time.Now,
	}
}

// AddAccount opens an account with the given starting sequence
func (f *FakeLedger) AddAccount(address string, sequence int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq[address] = sequence
}

// AddTransaction appends a record to the account's history as its newest entry
func (f *FakeLedger) AddTransaction(address string, rec ledger.TransactionRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.seq[address]; !ok {
		f.seq[address] = 0
	}
	if rec.SourceAccount == "" {
		rec.SourceAccount = address
	}
	f.history[address] = append([]ledger.TransactionRecord{rec}, f.history[address]...)
	if rec.Hash != "" {
		f.byHash[rec.Hash] = rec
	}
}

// RejectNext makes the next submission fail definitively with code and
// optional operation codes
func (f *FakeLedger) RejectNext(code string, opCodes ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, submitOutcome{rejectCode: code, opCodes: opCodes})
}

// FailNext makes the next submission report an unknown outcome. With commit
// the transaction is applied before the response is lost.
func (f *FakeLedger) FailNext(commit bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, submitOutcome{fail: true, commit: commit})
}

// BumpSequenceOnLoad advances the account's sequence after the next load,
// simulating another process submitting in between.
func (f *FakeLedger) BumpSequenceOnLoad(address string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadHook = func() { f.seq[address]++ }
}

// Transactions returns a copy of the account's history, newest first
func (f *FakeLedger) Transactions(address string) []ledger.TransactionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ledger.TransactionRecord(nil), f.history[address]...)
}

func (f *FakeLedger) LoadAccount(ctx context.Context, address string) (ledger.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Loads++
	seq, ok := f.seq[address]
	if !ok {
		return ledger.Account{}, ledger.ErrNotFound
	}
	if f.loadHook != nil {
		f.loadHook()
		f.loadHook = nil
	}
	return ledger.Account{Address: address, Sequence: seq, Balance: "10000.0000000"}, nil
}

func (f *FakeLedger) Submit(ctx context.Context, tx ledger.SignedTransaction) (ledger.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Submissions++

	var outcome submitOutcome
	if len(f.outcomes) > 0 {
		outcome = f.outcomes[0]
		f.outcomes = f.outcomes[1:]
	}
	if outcome.rejectCode != "" {
		return ledger.SubmitResult{Hash: tx.Hash, ResultCode: outcome.rejectCode, OperationCodes: outcome.opCodes}, nil
	}
	if outcome.fail && !outcome.commit {
		return ledger.SubmitResult{}, fmt.Errorf("%w: timeout", ledger.ErrUnavailable)
	}

	address := f.addressOf(tx)
	if address == "" {
		return ledger.SubmitResult{Hash: tx.Hash, ResultCode: "tx_no_source_account"}, nil
	}
	if tx.Sequence != f.seq[address]+1 {
		return ledger.SubmitResult{Hash: tx.Hash, ResultCode: "tx_bad_seq"}, nil
	}
	if !tx.ExpiresAt.IsZero() && f.Now().After(tx.ExpiresAt) {
		return ledger.SubmitResult{Hash: tx.Hash, ResultCode: "tx_too_late"}, nil
	}

	f.seq[address] = tx.Sequence
	rec := ledger.TransactionRecord{
		Hash:           tx.Hash,
		SourceAccount:  address,
		FeeCharged:     100,
		Memo:           tx.Memo,
		MemoType:       "text",
		OperationCount: 1,
		CreatedAt:      f.Now().UTC(),
		Successful:     true,
	}
	f.history[address] = append([]ledger.TransactionRecord{rec}, f.history[address]...)
	f.byHash[tx.Hash] = rec

	if outcome.fail {
		return ledger.SubmitResult{}, fmt.Errorf("%w: response lost", ledger.ErrUnavailable)
	}
	return ledger.SubmitResult{Hash: tx.Hash, Successful: true}, nil
}

func (f *FakeLedger) addressOf(tx ledger.SignedTransaction) string {
	if tx.Source != "" {
		if _, ok := f.seq[tx.Source]; ok {
			return tx.Source
		}
	}
	return ""
}

func (f *FakeLedger) TransactionsPage(ctx context.Context, address string, limit int, next string) (ledger.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PageFetches++

	if _, ok := f.seq[address]; !ok {
		return ledger.Page{}, ledger.ErrNotFound
	}

	offset := 0
	if next != "" {
		n, err := strconv.Atoi(next)
		if err != nil {
			return ledger.Page{}, fmt.Errorf("bad cursor %q", next)
		}
		offset = n
	}

	all := f.history[address]
	if offset > len(all) {
		offset = len(all)
	}
	end := min(offset+limit, len(all))

	page := ledger.Page{Records: append([]ledger.TransactionRecord(nil), all[offset:end]...)}
	if end < len(all) {
		page.Next = strconv.Itoa(end)
	}
	return page, nil
}

func (f *FakeLedger) Transaction(ctx context.Context, hash string) (ledger.TransactionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byHash[hash]
	if !ok {
		return ledger.TransactionRecord{}, ledger.ErrNotFound
	}
	return rec, nil
}

func (f *FakeLedger) Fund(ctx context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Funded = append(f.Funded, address)
	if _, ok := f.seq[address]; !ok {
		f.seq[address] = 1000
	}
	return nil
}
