package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mestredagrelha/grelha/internal/util"
)

// RecoveryResult indicates the outcome of a recovery attempt.
type RecoveryResult int

const (
	// RecoveryNotNeeded means the file was missing or healthy.
	RecoveryNotNeeded RecoveryResult = iota
	// RecoveryFromBackup means the file was replaced by a backup.
	RecoveryFromBackup
	// RecoveryFailed means the file is damaged and no backup was usable.
	RecoveryFailed
)

func (r RecoveryResult) String() string {
	switch r {
	case RecoveryNotNeeded:
		return "not_needed"
	case RecoveryFromBackup:
		return "restored_from_backup"
	case RecoveryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RecoveryReport describes what Recover did.
type RecoveryReport struct {
	Result        RecoveryResult
	DatabasePath  string
	BackupUsed    string
	PreservedCopy string
}

// Recover checks the database file before it is opened. A damaged file is
// moved aside and the newest backup that passes an integrity check is
// copied in its place.
func Recover(dbPath, backupDir string) (*RecoveryReport, error) {
	report := &RecoveryReport{DatabasePath: dbPath}

	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return report, nil
	}

	checkErr := checkFile(dbPath)
	if checkErr == nil {
		return report, nil
	}
	slog.Warn("database integrity check failed", "path", dbPath, "error", checkErr)

	backup, err := newestValidBackup(backupDir)
	if err != nil {
		report.Result = RecoveryFailed
		return report, fmt.Errorf("database %s is damaged: %w", dbPath, err)
	}

	preserved := dbPath + ".corrupted." + util.FileStamp(time.Now())
	if err := os.Rename(dbPath, preserved); err != nil {
		slog.Warn("failed to preserve damaged database", "path", dbPath, "error", err)
	} else {
		report.PreservedCopy = preserved
	}
	os.Remove(dbPath + "-wal")
	os.Remove(dbPath + "-shm")

	if err := copyFile(backup, dbPath); err != nil {
		report.Result = RecoveryFailed
		return report, fmt.Errorf("restoring backup %s: %w", backup, err)
	}

	report.Result = RecoveryFromBackup
	report.BackupUsed = backup
	slog.Warn("database restored from backup", "path", dbPath, "backup", backup)
	return report, nil
}

// checkFile opens path read-only and runs an integrity check.
func checkFile(path string) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return integrityCheck(ctx, db)
}

func newestValidBackup(dir string) (string, error) {
	if dir == "" {
		return "", errors.New("no backup directory configured")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading backup directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !isBackupName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})

	for _, c := range candidates {
		if err := checkFile(c.path); err != nil {
			slog.Debug("skipping damaged backup", "path", c.path, "error", err)
			continue
		}
		return c.path, nil
	}

	return "", errors.New("no valid backup found")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}

	return out.Sync()
}
