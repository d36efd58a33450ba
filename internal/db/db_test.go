package db

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j-veylop/production-report-tui/internal/logger"
)

func TestNew_CreatesFileAndDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plants", "nested", "report.db")

	db, err := New(context.Background(), path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}

func TestDSN(t *testing.T) {
	got := dsn("/data/report.db")
	if !strings.HasPrefix(got, "/data/report.db?") {
		t.Errorf("dsn() = %q, want the path before the query", got)
	}
	if n := strings.Count(got, "_pragma="); n != len(connPragmas) {
		t.Errorf("dsn() has %d pragmas, want %d", n, len(connPragmas))
	}
}

func TestConnectionPragmas(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Every pooled connection must enforce foreign keys, not just the first.
	// Holding every connection at once forces the pool to open all of them;
	// queries therefore run on the held connections only.
	db.SetMaxOpenConns(3)
	conns := make([]*sql.Conn, 0, 3)
	defer func() {
		for _, conn := range conns {
			_ = conn.Close()
		}
	}()
	for range 3 {
		conn, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn() error = %v", err)
		}
		conns = append(conns, conn)
	}

	for i, conn := range conns {
		var fk int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d: PRAGMA foreign_keys: %v", i, err)
		}
		if fk != 1 {
			t.Errorf("conn %d: foreign_keys = %d, want 1", i, fk)
		}

		var mode string
		if err := conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("conn %d: PRAGMA journal_mode: %v", i, err)
		}
		if mode != "wal" {
			t.Errorf("conn %d: journal_mode = %q, want wal", i, mode)
		}
	}
}

func TestMigrate_Tables(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"production_lines", "line_models", "monthly_entries", "day_values"} {
		var name string
		err := db.QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	version, err := db.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", version, len(migrations))
	}
}

func TestMigrate_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.db")
	ctx := context.Background()

	first, err := New(ctx, path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := New(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.db")
	ctx := context.Background()

	db, err := New(ctx, path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	db.Close()

	if _, err := New(ctx, path); err == nil || !strings.Contains(err.Error(), "newer") {
		t.Errorf("New() error = %v, want newer schema error", err)
	}
}

func TestVacuum(t *testing.T) {
	db := newTestDB(t)
	if err := db.Vacuum(context.Background()); err != nil {
		t.Errorf("Vacuum() error = %v", err)
	}
}

func TestClose(t *testing.T) {
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "report.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, err := db.QueryContext(context.Background(), "SELECT 1"); err == nil {
		t.Error("query on closed database should fail")
	}
}

// newTestDB opens a fresh database closed at the end of the test.
func TestClose_LogsCheckpointFailure(t *testing.T) {
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })
	var buf bytes.Buffer
	logger.Init(slog.LevelDebug, &buf)

	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("clean close logged %q", buf.String())
	}

	// The pool is gone, so the second checkpoint cannot run.
	if err := db.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Failed to checkpoint WAL") {
		t.Errorf("log = %q, want checkpoint warning", buf.String())
	}
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
