// Package database manages the SQLite file that holds the item registry
// and settings: WAL mode, embedded migrations, scheduled backups and
// recovery from a damaged file.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mestredagrelha/grelha/internal/config"
	"github.com/mestredagrelha/grelha/internal/util"

	_ "modernc.org/sqlite"
)

// ErrClosed is returned when the database is used after Close.
var ErrClosed = errors.New("database is closed")

// backupPrefix names backup files: grelha-20260307-210509.db.
const backupPrefix = "grelha-"

// DB wraps a sql.DB with backup and shutdown handling.
type DB struct {
	*sql.DB
	path      string
	config    *config.DatabaseConfig
	backupDir string

	mu     sync.RWMutex
	closed bool

	backupTicker *time.Ticker
	backupDone   chan struct{}
}

// Open opens (creating if needed) the database at dbPath with WAL mode and
// a single connection.
func Open(dbPath string, cfg *config.DatabaseConfig, backupDir string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_txlock=immediate&_timeout=5000", dbPath)

	sqlDB, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite only supports one writer
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	db := &DB{
		DB:        sqlDB,
		path:      dbPath,
		config:    cfg,
		backupDir: backupDir,
	}

	if err := db.initPragmas(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("initializing pragmas: %w", err)
	}

	if err := db.CheckIntegrity(context.Background()); err != nil {
		slog.Warn("database integrity check failed", "error", err)
	}

	if cfg != nil && cfg.BackupIntervalHours > 0 && backupDir != "" {
		db.startBackupScheduler(time.Duration(cfg.BackupIntervalHours) * time.Hour)
	}

	return db, nil
}

func (db *DB) initPragmas() error {
	pragmas := []struct {
		name   string
		pragma string
	}{
		{"journal_mode", "PRAGMA journal_mode=WAL"},
		{"synchronous", "PRAGMA synchronous=NORMAL"},
		{"busy_timeout", "PRAGMA busy_timeout=5000"},
		{"foreign_keys", "PRAGMA foreign_keys=ON"},
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p.pragma); err != nil {
			return fmt.Errorf("setting %s: %w", p.name, err)
		}
	}

	return nil
}

// CheckIntegrity runs PRAGMA integrity_check.
func (db *DB) CheckIntegrity(ctx context.Context) error {
	return integrityCheck(ctx, db.DB)
}

func integrityCheck(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}) error {
	rows, err := q.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return fmt.Errorf("running integrity check: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var result string
		if err := rows.Scan(&result); err != nil {
			return fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating results: %w", err)
	}

	if len(results) == 1 && results[0] == "ok" {
		return nil
	}

	return fmt.Errorf("integrity check failed: %s", strings.Join(results, "; "))
}

// Checkpoint flushes the WAL into the main database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}

// Backup writes a copy of the database into the backup directory and
// returns its path.
func (db *DB) Backup(ctx context.Context) (string, error) {
	if db.backupDir == "" {
		return "", errors.New("backup directory not configured")
	}

	backupPath := filepath.Join(db.backupDir, backupPrefix+util.FileStamp(time.Now())+".db")

	if err := db.Checkpoint(ctx); err != nil {
		slog.Warn("checkpoint before backup failed", "error", err)
	}

	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", backupPath); err != nil {
		return "", fmt.Errorf("creating backup: %w", err)
	}

	slog.Info("database backup created", "path", backupPath)

	if db.config != nil && db.config.BackupRetentionDays > 0 {
		pruneBackups(db.backupDir, time.Now().AddDate(0, 0, -db.config.BackupRetentionDays))
	}

	return backupPath, nil
}

// pruneBackups removes backup files last modified before cutoff.
func pruneBackups(dir string, cutoff time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("reading backup directory", "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isBackupName(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("removing old backup", "path", path, "error", err)
			continue
		}
		slog.Debug("removed old backup", "path", path)
	}
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, ".db")
}

func (db *DB) startBackupScheduler(interval time.Duration) {
	db.backupTicker = time.NewTicker(interval)
	db.backupDone = make(chan struct{})

	go func() {
		for {
			select {
			case <-db.backupTicker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				if _, err := db.Backup(ctx); err != nil {
					slog.Error("scheduled backup failed", "error", err)
				}
				cancel()
			case <-db.backupDone:
				return
			}
		}
	}()
}

// Close stops the backup scheduler, checkpoints the WAL and closes the
// connection. It is safe to call more than once.
func (db *DB) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return nil
	}
	db.closed = true
	db.mu.Unlock()

	if db.backupTicker != nil {
		db.backupTicker.Stop()
		close(db.backupDone)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if db.path != memoryPath {
		if err := db.Checkpoint(ctx); err != nil {
			slog.Warn("final checkpoint failed", "error", err)
		}
	}

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	slog.Debug("database closed", "path", db.path)
	return nil
}

// IsClosed returns true if the database has been closed.
func (db *DB) IsClosed() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.closed
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// BeginTx starts a transaction, failing with ErrClosed after Close.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	if db.IsClosed() {
		return nil, ErrClosed
	}
	return db.DB.BeginTx(ctx, opts)
}

// WithTransaction executes fn within a transaction. The transaction is
// committed if fn returns nil, otherwise rolled back.
func (db *DB) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back after error %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// HealthCheck verifies the connection answers a trivial query.
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.IsClosed() {
		return ErrClosed
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("health check query: %w", err)
	}

	return nil
}
