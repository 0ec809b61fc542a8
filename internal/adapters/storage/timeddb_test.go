package storage

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// TestTimedDB_DelegatesQueries verifies every wrapped method reaches the database.
func TestTimedDB_DelegatesQueries(t *testing.T) {
	ctx := context.Background()
	tdb := NewTimedDB(openTimedTestDB(t), time.Hour)

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}

	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val); err != nil || val != "hello" {
		t.Fatalf("QueryRowContext = %q, %v", val, err)
	}

	rows, err := tdb.QueryContext(ctx, "SELECT id FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	rows.Close()
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}

	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	tx.Rollback()
}

// TestTimedDB_SlowQueryWarns verifies queries over the threshold log at WARN.
func TestTimedDB_SlowQueryWarns(t *testing.T) {
	logs := captureLogs(t)
	tdb := NewTimedDB(openTimedTestDB(t), time.Nanosecond)

	tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES ('1', 'x')")

	if !strings.Contains(logs.String(), "msg=slow_query") {
		t.Errorf("expected slow_query, got %q", logs.String())
	}
}

// TestTimedDB_FastQueryDebug verifies fast queries log at DEBUG without the SQL text.
func TestTimedDB_FastQueryDebug(t *testing.T) {
	logs := captureLogs(t)
	tdb := NewTimedDB(openTimedTestDB(t), time.Hour)

	tdb.QueryRowContext(context.Background(), "SELECT 1")

	out := logs.String()
	if !strings.Contains(out, "level=DEBUG msg=query") {
		t.Errorf("expected debug query line, got %q", out)
	}
	if strings.Contains(out, "SELECT 1") {
		t.Errorf("fast queries must not log SQL, got %q", out)
	}
}

func TestTimedDB_ErrorsPropagate(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), time.Hour)
	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO missing VALUES (1)"); err == nil {
		t.Error("expected error for missing table")
	}
}
