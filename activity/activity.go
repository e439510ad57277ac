// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package activity records an audit trail of admin and voter actions. Writes
// are fire-and-forget: a failing sink is logged and never fails the caller.
package activity

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ledger-ballot/auth"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/models"
)

const writeTimeout = 5 * time.Second

// DefaultPageSize and MaxPageSize bound activity listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Sink stores activity entries.
type Sink interface {
	Write(ctx context.Context, entry models.ActivityEntry) error
}

// Reader is a Sink that can page back through an admin's entries, newest
// first. Pages start at 1.
type Reader interface {
	List(ctx context.Context, adminID string, page, limit int) ([]models.ActivityEntry, error)
}

type Log struct {
	sink   Sink
	ipSalt string
	now    func() time.Time
}

func New(sink Sink) *Log {
	if sink == nil {
		sink = Discard{}
	}
	return &Log{sink: sink, now: time.Now}
}

// HashIPs makes the log store salted hashes instead of client addresses.
func (l *Log) HashIPs(salt string) *Log {
	l.ipSalt = salt
	return l
}

// Record writes an entry for the request. r may be nil for background work.
func (l *Log) Record(ctx context.Context, r *http.Request, adminID, action, status string, metadata map[string]any) {
	if l == nil {
		return
	}

	entry := models.ActivityEntry{
		ID:        auth.NewRecordID(),
		AdminID:   adminID,
		Action:    action,
		Status:    status,
		Metadata:  metadata,
		CreatedAt: l.now().UTC(),
	}
	if r != nil {
		entry.IPAddress = middleware.GetClientIP(r)
		if l.ipSalt != "" {
			entry.IPAddress = auth.HashIP(entry.IPAddress, l.ipSalt)
		}
		entry.UserAgent = r.UserAgent()
	}

	// The request may already be finishing; the write gets its own deadline
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := l.sink.Write(ctx, entry); err != nil {
		slog.Warn("failed to record activity", "action", action, "admin_id", adminID, "error", err)
	}
}

// List returns one page of the admin's entries, newest first. A sink that
// cannot be read back yields no entries.
func (l *Log) List(ctx context.Context, adminID string, page, limit int) ([]models.ActivityEntry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if l == nil {
		return []models.ActivityEntry{}, nil
	}
	r, ok := l.sink.(Reader)
	if !ok {
		return []models.ActivityEntry{}, nil
	}
	entries, err := r.List(ctx, adminID, page, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}
	return entries, nil
}

// Discard drops every entry.
type Discard struct{}

func (Discard) Write(context.Context, models.ActivityEntry) error { return nil }
