// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() run %d error = %v", i+1, err)
		}
	}

	for _, table := range []string{"admin", "voter", "candidate", "vote_intent", "activity_log"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s: %v", table, err)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	conn, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "unique.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()
	if err := CreateSchema(conn); err != nil {
		t.Fatal(err)
	}

	insert := `
		INSERT INTO admin (id, id_no, name, email, password_hash, wallet_address, wallet_secret, created_at)
		VALUES ($1, $2, 'Admin', $3, 'hash', $4, 'secret', $5)
	`
	if _, err := conn.Exec(insert, "a1", "ID-1", "a1@example.com", "GADDR1", time.Now()); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	_, err = conn.Exec(insert, "a2", "ID-1", "a2@example.com", "GADDR2", time.Now())
	if !IsUniqueViolation(err) {
		t.Errorf("Expected unique violation, got %v", err)
	}

	if IsUniqueViolation(nil) {
		t.Error("nil is not a unique violation")
	}
	if IsUniqueViolation(errors.New("connection reset")) {
		t.Error("unrelated error reported as unique violation")
	}
}
