// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"fmt"
	"time"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// VoteAmount is the nominal native payment every vote transaction carries.
const VoteAmount = "0.00001"

// VoteTimeout is the validity window of a vote transaction.
const VoteTimeout = 30 * time.Second

// BuildVote builds and signs the vote transaction for candidateID: a payment
// of VoteAmount from the Election Account to itself, memo "Vote:<id>", valid
// until expires. acct.Sequence must be the account's current sequence.
func BuildVote(acct Account, secret, candidateID, passphrase string, expires time.Time) (SignedTransaction, error) {
	kp, err := keypair.ParseFull(secret)
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("failed to parse election account secret: %w", err)
	}
	if kp.Address() != acct.Address {
		return SignedTransaction{}, fmt.Errorf("election account secret does not match %s", acct.Address)
	}

	memo, err := EncodeVoteMemo(candidateID)
	if err != nil {
		return SignedTransaction{}, err
	}

	source := txnbuild.SimpleAccount{AccountID: acct.Address, Sequence: acct.Sequence}
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &source,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: acct.Address,
				Amount:      VoteAmount,
				Asset:       txnbuild.NativeAsset{},
			},
		},
		BaseFee: txnbuild.MinBaseFee,
		Memo:    txnbuild.MemoText(memo),
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimebounds(0, expires.Unix()),
		},
	})
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("failed to build vote transaction: %w", err)
	}

	tx, err = tx.Sign(passphrase, kp)
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("failed to sign vote transaction: %w", err)
	}

	hash, err := tx.HashHex(passphrase)
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("failed to hash vote transaction: %w", err)
	}
	envelope, err := tx.Base64()
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("failed to encode vote transaction: %w", err)
	}

	return SignedTransaction{
		Hash:      hash,
		Source:    acct.Address,
		Envelope:  envelope,
		Memo:      memo,
		Sequence:  acct.Sequence + 1,
		ExpiresAt: time.Unix(expires.Unix(), 0),
	}, nil
}

// NewElectionKeypair returns a fresh Election Account address and secret.
func NewElectionKeypair() (address, secret string, err error) {
	kp, err := keypair.Random()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate election keypair: %w", err)
	}
	return kp.Address(), kp.Seed(), nil
}
