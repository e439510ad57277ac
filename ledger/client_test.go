// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/danielhkuo/ledger-ballot/apperr"
)

// pagedNetwork serves a fixed list of pages and counts calls.
type pagedNetwork struct {
	pages      []Page
	pageErrs   []error // consumed before serving a page
	calls      int
	nextSeen   []string
	account    Account
	accountErr error
	submitRes  SubmitResult
	submitErr  error
	tx         map[string]TransactionRecord
}

func (n *pagedNetwork) LoadAccount(ctx context.Context, address string) (Account, error) {
	n.calls++
	return n.account, n.accountErr
}

func (n *pagedNetwork) Submit(ctx context.Context, tx SignedTransaction) (SubmitResult, error) {
	n.calls++
	return n.submitRes, n.submitErr
}

func (n *pagedNetwork) TransactionsPage(ctx context.Context, address string, limit int, next string) (Page, error) {
	n.calls++
	n.nextSeen = append(n.nextSeen, next)
	if len(n.pageErrs) > 0 {
		err := n.pageErrs[0]
		n.pageErrs = n.pageErrs[1:]
		return Page{}, err
	}
	idx := 0
	if next != "" {
		i, err := strconv.Atoi(next)
		if err != nil {
			return Page{}, fmt.Errorf("bad handle %q", next)
		}
		idx = i
	}
	if idx >= len(n.pages) {
		return Page{}, nil
	}
	return n.pages[idx], nil
}

func (n *pagedNetwork) Transaction(ctx context.Context, hash string) (TransactionRecord, error) {
	n.calls++
	rec, ok := n.tx[hash]
	if !ok {
		return TransactionRecord{}, ErrNotFound
	}
	return rec, nil
}

func (n *pagedNetwork) Fund(ctx context.Context, address string) error { return nil }

// buildPages returns pages of the given sizes with sequential hashes; every
// page but the last links to the next one.
func buildPages(sizes ...int) []Page {
	pages := make([]Page, len(sizes))
	n := 0
	for i, size := range sizes {
		for j := 0; j < size; j++ {
			pages[i].Records = append(pages[i].Records, TransactionRecord{Hash: "tx-" + strconv.Itoa(n), Memo: "Vote:A"})
			n++
		}
		if i < len(sizes)-1 {
			pages[i].Next = strconv.Itoa(i + 1)
		}
	}
	return pages
}

func newTestClient(n Network, attempts int) *Client {
	c := NewClient(n, attempts)
	c.backoff = 0
	return c
}

func TestAllTransactions_Pagination(t *testing.T) {
	network := &pagedNetwork{pages: buildPages(PageSize, PageSize, PageSize, 47)}
	client := newTestClient(network, 1)

	records, err := client.AllTransactions(context.Background(), "GACCOUNT")
	if err != nil {
		t.Fatalf("AllTransactions() error = %v", err)
	}

	if len(records) != 647 {
		t.Fatalf("Expected 647 records, got %d", len(records))
	}

	seen := make(map[string]bool)
	for i, rec := range records {
		if seen[rec.Hash] {
			t.Fatalf("Duplicate record %s", rec.Hash)
		}
		seen[rec.Hash] = true
		if rec.Hash != "tx-"+strconv.Itoa(i) {
			t.Fatalf("Record %d out of order: %s", i, rec.Hash)
		}
	}

	if network.calls != 4 {
		t.Errorf("Expected 4 page fetches, got %d", network.calls)
	}
	if network.nextSeen[0] != "" {
		t.Errorf("First request should carry no handle, got %q", network.nextSeen[0])
	}
}

func TestAllTransactions_StopsOnShortPageEvenWithNext(t *testing.T) {
	pages := buildPages(10, PageSize)
	pages[0].Next = "1"
	network := &pagedNetwork{pages: pages}
	client := newTestClient(network, 1)

	records, err := client.AllTransactions(context.Background(), "GACCOUNT")
	if err != nil {
		t.Fatalf("AllTransactions() error = %v", err)
	}
	if len(records) != 10 {
		t.Errorf("Expected 10 records, got %d", len(records))
	}
	if network.calls != 1 {
		t.Errorf("Expected 1 page fetch, got %d", network.calls)
	}
}

func TestAllTransactions_StopsOnFullPageWithoutNext(t *testing.T) {
	pages := buildPages(PageSize)
	network := &pagedNetwork{pages: pages}
	client := newTestClient(network, 1)

	records, err := client.AllTransactions(context.Background(), "GACCOUNT")
	if err != nil {
		t.Fatalf("AllTransactions() error = %v", err)
	}
	if len(records) != PageSize {
		t.Errorf("Expected %d records, got %d", PageSize, len(records))
	}
}

func TestAllTransactions_EmptyHistory(t *testing.T) {
	network := &pagedNetwork{pages: []Page{{}}}
	client := newTestClient(network, 1)

	records, err := client.AllTransactions(context.Background(), "GACCOUNT")
	if err != nil {
		t.Fatalf("AllTransactions() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestAllTransactions_RetriesUnavailable(t *testing.T) {
	network := &pagedNetwork{
		pages:    buildPages(PageSize, 3),
		pageErrs: []error{ErrUnavailable},
	}
	client := newTestClient(network, 3)

	records, err := client.AllTransactions(context.Background(), "GACCOUNT")
	if err != nil {
		t.Fatalf("AllTransactions() error = %v", err)
	}
	if len(records) != PageSize+3 {
		t.Errorf("Expected %d records, got %d", PageSize+3, len(records))
	}
}

func TestAllTransactions_PropagatesUnavailable(t *testing.T) {
	network := &pagedNetwork{
		pages:    buildPages(PageSize, 3),
		pageErrs: []error{ErrUnavailable, ErrUnavailable},
	}
	client := newTestClient(network, 2)

	_, err := client.AllTransactions(context.Background(), "GACCOUNT")
	if !apperr.Is(err, apperr.LedgerUnavailable) {
		t.Fatalf("Expected LedgerUnavailable, got %v", err)
	}
}

func TestAllTransactions_DoesNotRetryOtherErrors(t *testing.T) {
	network := &pagedNetwork{
		pages:    buildPages(3),
		pageErrs: []error{errors.New("malformed response")},
	}
	client := newTestClient(network, 5)

	_, err := client.AllTransactions(context.Background(), "GACCOUNT")
	if err == nil {
		t.Fatal("Expected error")
	}
	if network.calls != 1 {
		t.Errorf("Expected a single attempt, got %d", network.calls)
	}
}

func TestTransactions_EarlyBreak(t *testing.T) {
	network := &pagedNetwork{pages: buildPages(PageSize, PageSize)}
	client := newTestClient(network, 1)

	count := 0
	for _, err := range client.Transactions(context.Background(), "GACCOUNT") {
		if err != nil {
			t.Fatal(err)
		}
		count++
		if count == 5 {
			break
		}
	}
	if network.calls != 1 {
		t.Errorf("Expected the second page not to be fetched, got %d calls", network.calls)
	}
}

func TestLoadAccount_NotFound(t *testing.T) {
	network := &pagedNetwork{accountErr: ErrNotFound}
	client := newTestClient(network, 3)

	_, err := client.LoadAccount(context.Background(), "GACCOUNT")
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("Expected NotFound, got %v", err)
	}
}

func TestSubmit(t *testing.T) {
	t.Run("rejected without code", func(t *testing.T) {
		network := &pagedNetwork{submitRes: SubmitResult{Successful: false}}
		client := newTestClient(network, 1)

		res, err := client.Submit(context.Background(), SignedTransaction{Hash: "abc"})
		if err != nil {
			t.Fatal(err)
		}
		if res.ResultCode != "tx_failed" || res.Hash != "abc" {
			t.Errorf("Unexpected result %+v", res)
		}
	})

	t.Run("unknown outcome is not retried", func(t *testing.T) {
		network := &pagedNetwork{submitErr: ErrUnavailable}
		client := newTestClient(network, 3)

		_, err := client.Submit(context.Background(), SignedTransaction{Hash: "abc"})
		if !apperr.Is(err, apperr.LedgerUnavailable) {
			t.Fatalf("Expected LedgerUnavailable, got %v", err)
		}
		if network.calls != 1 {
			t.Errorf("Expected one submission, got %d", network.calls)
		}
	})
}

func TestTransaction(t *testing.T) {
	network := &pagedNetwork{tx: map[string]TransactionRecord{"abc": {Hash: "abc", Successful: true}}}
	client := newTestClient(network, 1)

	rec, found, err := client.Transaction(context.Background(), "abc")
	if err != nil || !found || rec.Hash != "abc" {
		t.Errorf("Transaction(abc) = %+v, %v, %v", rec, found, err)
	}

	_, found, err = client.Transaction(context.Background(), "missing")
	if err != nil || found {
		t.Errorf("Transaction(missing) found=%v err=%v, want not found", found, err)
	}
}
