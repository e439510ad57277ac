// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store persists admins, voters, candidates and vote intents in SQL.
// Every query uses $N placeholders so the same statements run on Postgres
// and SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/ledger-ballot/apperr"
	"github.com/danielhkuo/ledger-ballot/db"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(conn *sql.DB) *Store {
	return &Store{db: conn, now: func() time.Time { return time.Now().UTC() }}
}

func notFound(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.NotFound, message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

func insertErr(err error, conflict *apperr.Error, what string) error {
	if db.IsUniqueViolation(err) {
		return conflict
	}
	return fmt.Errorf("failed to insert %s: %w", what, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func queryList[T any](ctx context.Context, conn *sql.DB, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func count(ctx context.Context, conn *sql.DB, query string, args ...any) (int, error) {
	var n int
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
