// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package apperr defines the error kinds returned by the election core and
// their mapping to HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	Unauthorized
	Phase
	NotFound
	Conflict
	AlreadyVoted
	VotePending
	LedgerRejected
	LedgerUnavailable
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthorized:
		return "unauthorized"
	case Phase:
		return "phase"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case AlreadyVoted:
		return "already_voted"
	case VotePending:
		return "vote_pending"
	case LedgerRejected:
		return "ledger_rejected"
	case LedgerUnavailable:
		return "ledger_unavailable"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
	// ResultCode is the ledger's transaction result code, passed through verbatim.
	ResultCode string
	// OperationCodes are the per-operation codes behind a tx_failed result.
	OperationCodes []string
	Err            error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Message
	if e.ResultCode != "" {
		msg += " (" + strings.Join(append([]string{e.ResultCode}, e.OperationCodes...), ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Rejected reports a definitive ledger rejection with its result code and
// any operation codes.
func Rejected(resultCode string, operationCodes ...string) *Error {
	return &Error{
		Kind:           LedgerRejected,
		Message:        "Ledger rejected the transaction",
		ResultCode:     resultCode,
		OperationCodes: operationCodes,
	}
}

// KindOf returns the kind of err, or Internal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to the status code returned at the API boundary.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, Phase, AlreadyVoted, LedgerRejected:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict, VotePending:
		return http.StatusConflict
	case LedgerUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the caller-facing message. Internal errors never leak
// their details.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "Internal Server Error"
}

// ResultCode returns the ledger result code carried by err, if any.
func ResultCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.ResultCode
	}
	return ""
}

// OperationCodes returns the ledger operation codes carried by err, if any.
func OperationCodes(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.OperationCodes
	}
	return nil
}
