// Package testutil provides utilities for testing.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mestredagrelha/grelha/internal/config"
	"github.com/mestredagrelha/grelha/internal/database"
)

// TestDB wraps a test database connection.
type TestDB struct {
	*database.DB
}

// NewTestDB creates a new in-memory SQLite database with all migrations
// applied.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	db, err := database.NewMigratedInMemory(context.Background())
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	return &TestDB{DB: db}
}

// NewTestDBWithFile creates a migrated test database backed by a temporary
// file. Useful for debugging tests and for backup paths.
func NewTestDBWithFile(t *testing.T) *TestDB {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := config.Default().Database
	cfg.BackupIntervalHours = 0

	db, err := database.Open(filepath.Join(tmpDir, "test.db"), &cfg, filepath.Join(tmpDir, "backups"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	m, err := database.NewMigrator(db)
	if err != nil {
		t.Fatalf("failed to create migrator: %v", err)
	}
	if _, err := m.MigrateUp(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{DB: db}
}

// Close closes the test database and cleans up resources.
func (tdb *TestDB) Close(t *testing.T) {
	t.Helper()

	if err := tdb.DB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}

// AssertRowCount asserts the row count for a table.
func (tdb *TestDB) AssertRowCount(t *testing.T, table string, expected int) {
	t.Helper()

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := tdb.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}

	if count != expected {
		t.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
}

// ExecSQL executes arbitrary SQL (useful for test setup).
func (tdb *TestDB) ExecSQL(t *testing.T, sql string, args ...any) {
	t.Helper()

	if _, err := tdb.Exec(sql, args...); err != nil {
		t.Fatalf("failed to execute SQL: %v\nSQL: %s", err, sql)
	}
}
