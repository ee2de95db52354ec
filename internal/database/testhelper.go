package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// NewInMemory creates an in-memory database for tests. It does not run
// migrations.
func NewInMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", memoryPath)
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return &DB{DB: sqlDB, path: memoryPath}, nil
}

// NewMigratedInMemory creates an in-memory database with every migration
// applied.
func NewMigratedInMemory(ctx context.Context) (*DB, error) {
	db, err := NewInMemory()
	if err != nil {
		return nil, err
	}

	m, err := NewMigrator(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := m.MigrateUp(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
