// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"time"
)

// PageSize is the largest page the ledger service returns for history queries.
const PageSize = 200

var (
	// ErrUnavailable marks network or service failures. For submissions the
	// outcome of the transaction is unknown.
	ErrUnavailable = errors.New("ledger unavailable")
	// ErrNotFound marks a missing account or transaction.
	ErrNotFound = errors.New("ledger record not found")
)

// Account is the ledger state needed to build a transaction.
type Account struct {
	Address  string
	Sequence int64
	Balance  string
}

// SignedTransaction is a vote transaction ready for submission. Hash is known
// before submission and names the transaction on the ledger.
type SignedTransaction struct {
	Hash      string
	Source    string
	Envelope  string // base64 XDR
	Memo      string
	Sequence  int64
	ExpiresAt time.Time
}

// SubmitResult is the ledger's verdict on a submitted transaction.
type SubmitResult struct {
	Hash           string
	Successful     bool
	ResultCode     string
	OperationCodes []string
}

// TransactionRecord is one entry of an account's transaction history.
type TransactionRecord struct {
	Hash           string
	SourceAccount  string
	FeeCharged     int64
	Memo           string
	MemoType       string
	OperationCount int32
	CreatedAt      time.Time
	Ledger         int32
	Successful     bool
}

// Page is one page of history. Next is an opaque handle for the following
// page; empty when the service reports none.
type Page struct {
	Records []TransactionRecord
	Next    string
}

// Network is the external ledger service.
type Network interface {
	LoadAccount(ctx context.Context, address string) (Account, error)
	Submit(ctx context.Context, tx SignedTransaction) (SubmitResult, error)
	// TransactionsPage returns history newest first. An empty next requests
	// the first page.
	TransactionsPage(ctx context.Context, address string, limit int, next string) (Page, error)
	Transaction(ctx context.Context, hash string) (TransactionRecord, error)
	Fund(ctx context.Context, address string) error
}
