// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/support/render/hal"
)

// Horizon is the Network backed by a Horizon server.
type Horizon struct {
	client       *horizonclient.Client
	http         *http.Client
	friendbotURL string
}

func NewHorizon(horizonURL, friendbotURL string) *Horizon {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &Horizon{
		client: &horizonclient.Client{
			HorizonURL: horizonURL,
			HTTP:       httpClient,
		},
		http:         httpClient,
		friendbotURL: friendbotURL,
	}
}

func (h *Horizon) LoadAccount(ctx context.Context, address string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	acct, err := h.client.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		return Account{}, classify(err)
	}
	seq, err := acct.GetSequenceNumber()
	if err != nil {
		return Account{}, fmt.Errorf("failed to read sequence of %s: %w", address, err)
	}
	balance, err := acct.GetNativeBalance()
	if err != nil {
		balance = "0"
	}
	return Account{Address: address, Sequence: seq, Balance: balance}, nil
}

func (h *Horizon) Submit(ctx context.Context, tx SignedTransaction) (SubmitResult, error) {
	if err := ctx.Err(); err != nil {
		return SubmitResult{}, err
	}
	resp, err := h.client.SubmitTransactionXDR(tx.Envelope)
	if err != nil {
		if herr := horizonclient.GetError(err); herr != nil {
			codes, cerr := herr.ResultCodes()
			if cerr == nil && codes != nil && codes.TransactionCode != "" {
				return SubmitResult{
					Hash:           tx.Hash,
					Successful:     false,
					ResultCode:     codes.TransactionCode,
					OperationCodes: codes.OperationCodes,
				}, nil
			}
			if code, ok := rejectionCode(herr); ok {
				return SubmitResult{Hash: tx.Hash, Successful: false, ResultCode: code}, nil
			}
		}
		// Timeouts and 5xx leave the outcome unknown
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return SubmitResult{Hash: resp.Hash, Successful: resp.Successful}, nil
}

func (h *Horizon) TransactionsPage(ctx context.Context, address string, limit int, next string) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	var page hProtocol.TransactionsPage
	var err error
	if next == "" {
		page, err = h.client.Transactions(horizonclient.TransactionRequest{
			ForAccount: address,
			Limit:      uint(limit),
			Order:      horizonclient.OrderDesc,
		})
	} else {
		page, err = h.client.NextTransactionsPage(hProtocol.TransactionsPage{
			Links: hal.Links{Next: hal.Link{Href: next}},
		})
	}
	if err != nil {
		return Page{}, classify(err)
	}

	records := make([]TransactionRecord, 0, len(page.Embedded.Records))
	for _, tx := range page.Embedded.Records {
		records = append(records, toRecord(tx))
	}
	return Page{Records: records, Next: page.Links.Next.Href}, nil
}

func (h *Horizon) Transaction(ctx context.Context, hash string) (TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return TransactionRecord{}, err
	}
	tx, err := h.client.TransactionDetail(hash)
	if err != nil {
		return TransactionRecord{}, classify(err)
	}
	return toRecord(tx), nil
}

// Fund calls the friendbot endpoint. Without a configured endpoint the
// account is expected to be funded out of band.
func (h *Horizon) Fund(ctx context.Context, address string) error {
	if h.friendbotURL == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.friendbotURL+"?addr="+url.QueryEscape(address), nil)
	if err != nil {
		return fmt.Errorf("failed to build friendbot request: %w", err)
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: friendbot: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: friendbot returned %s", ErrUnavailable, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("friendbot returned %s", resp.Status)
	}
	return nil
}

// rejectionCode reports a 4xx problem without result codes, such as
// transaction_malformed, as a definitive rejection named by its problem type.
// Not found and rate limiting say nothing about the transaction.
func rejectionCode(herr *horizonclient.Error) (string, bool) {
	status := herr.Problem.Status
	if status == 0 && herr.Response != nil {
		status = herr.Response.StatusCode
	}
	if status < 400 || status >= 500 || status == http.StatusNotFound || status == http.StatusTooManyRequests {
		return "", false
	}
	code := herr.Problem.Type
	if i := strings.LastIndex(code, "/"); i >= 0 {
		code = code[i+1:]
	}
	if code == "" {
		code = "tx_failed"
	}
	return code, true
}

func classify(err error) error {
	if horizonclient.IsNotFoundError(err) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func toRecord(tx hProtocol.Transaction) TransactionRecord {
	return TransactionRecord{
		Hash:           tx.Hash,
		SourceAccount:  tx.Account,
		FeeCharged:     tx.FeeCharged,
		Memo:           tx.Memo,
		MemoType:       tx.MemoType,
		OperationCount: tx.OperationCount,
		CreatedAt:      tx.LedgerCloseTime,
		Ledger:         tx.Ledger,
		Successful:     tx.Successful,
	}
}
