// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"github.com/matryer/try"

	"github.com/danielhkuo/ledger-ballot/apperr"
)

// Client wraps a Network with bounded retries on reads and the history
// pagination rule. Submissions are never retried here.
type Client struct {
	network      Network
	readAttempts int
	backoff      time.Duration
}

func NewClient(network Network, readAttempts int) *Client {
	if readAttempts < 1 {
		readAttempts = 1
	}
	return &Client{network: network, readAttempts: readAttempts, backoff: 250 * time.Millisecond}
}

// LoadAccount returns the account's current sequence and native balance.
func (c *Client) LoadAccount(ctx context.Context, address string) (Account, error) {
	var acct Account
	err := c.retry(ctx, func() error {
		var err error
		acct, err = c.network.LoadAccount(ctx, address)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return Account{}, apperr.Wrap(apperr.NotFound, "Election account is inactive or unfunded", err)
	}
	if err != nil {
		return Account{}, unavailable(err)
	}
	return acct, nil
}

// Submit sends a signed transaction once. A non-nil error means the outcome
// is unknown; a rejected transaction is reported through SubmitResult.
func (c *Client) Submit(ctx context.Context, tx SignedTransaction) (SubmitResult, error) {
	if err := ctx.Err(); err != nil {
		return SubmitResult{}, unavailable(err)
	}
	res, err := c.network.Submit(ctx, tx)
	if err != nil {
		return SubmitResult{}, unavailable(err)
	}
	if res.Hash == "" {
		res.Hash = tx.Hash
	}
	if !res.Successful && res.ResultCode == "" {
		res.ResultCode = "tx_failed"
	}
	return res, nil
}

// Transaction looks up a transaction by hash. The boolean is false when the
// ledger has no such transaction.
func (c *Client) Transaction(ctx context.Context, hash string) (TransactionRecord, bool, error) {
	var rec TransactionRecord
	err := c.retry(ctx, func() error {
		var err error
		rec, err = c.network.Transaction(ctx, hash)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return TransactionRecord{}, false, nil
	}
	if err != nil {
		return TransactionRecord{}, false, unavailable(err)
	}
	return rec, true, nil
}

// Transactions yields the account's history newest first. Pages are followed
// while they are full and carry a next handle; a short page ends the sequence.
// Iteration restarts from the newest record on every call.
func (c *Client) Transactions(ctx context.Context, address string) iter.Seq2[TransactionRecord, error] {
	return func(yield func(TransactionRecord, error) bool) {
		next := ""
		for {
			var page Page
			err := c.retry(ctx, func() error {
				var err error
				page, err = c.network.TransactionsPage(ctx, address, PageSize, next)
				return err
			})
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					yield(TransactionRecord{}, apperr.Wrap(apperr.NotFound, "Election account is inactive or unfunded", err))
					return
				}
				yield(TransactionRecord{}, unavailable(err))
				return
			}

			for _, rec := range page.Records {
				if !yield(rec, nil) {
					return
				}
			}

			if len(page.Records) < PageSize || page.Next == "" {
				return
			}
			next = page.Next
		}
	}
}

// AllTransactions collects the full history of an account.
func (c *Client) AllTransactions(ctx context.Context, address string) ([]TransactionRecord, error) {
	var records []TransactionRecord
	for rec, err := range c.Transactions(ctx, address) {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Fund asks the network's funding service to create the account.
func (c *Client) Fund(ctx context.Context, address string) error {
	if err := c.retry(ctx, func() error { return c.network.Fund(ctx, address) }); err != nil {
		return unavailable(err)
	}
	return nil
}

// retry runs fn up to readAttempts times while it fails with ErrUnavailable.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	return try.Do(func(attempt int) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		err := fn()
		if err == nil || !errors.Is(err, ErrUnavailable) {
			return false, err
		}
		if attempt >= c.readAttempts {
			return false, err
		}
		slog.Warn("ledger read failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
		return true, err
	})
}

func unavailable(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Wrap(apperr.LedgerUnavailable, "Ledger service unavailable", err)
}
