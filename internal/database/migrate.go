package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationName matches NNN_description.sql.
var migrationName = regexp.MustCompile(`^(\d{3})_(.+)\.sql$`)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// Migration is one embedded schema change.
type Migration struct {
	Version     int
	Description string
	UpSQL       string
	DownSQL     string
	Applied     bool
	AppliedAt   time.Time
}

// MigrationResult contains the result of running migrations.
type MigrationResult struct {
	Applied        []Migration
	CurrentVersion int
	TargetVersion  int
}

// Migrator applies the embedded migrations in version order.
type Migrator struct {
	db         *DB
	migrations []Migration
}

// NewMigrator loads the embedded migrations and makes sure the
// schema_migrations table exists.
func NewMigrator(db *DB) (*Migrator, error) {
	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}

	m := &Migrator{db: db, migrations: migrations}
	if err := m.ensureMigrationsTable(); err != nil {
		return nil, fmt.Errorf("creating migrations table: %w", err)
	}

	return m, nil
}

func loadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matches := migrationName.FindStringSubmatch(entry.Name())
		if matches == nil {
			slog.Warn("skipping invalid migration filename", "name", entry.Name())
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		version, _ := strconv.Atoi(matches[1])
		up, down := parseMigration(string(content))
		out = append(out, Migration{
			Version:     version,
			Description: strings.ReplaceAll(matches[2], "_", " "),
			UpSQL:       up,
			DownSQL:     down,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })

	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %03d", out[i].Version)
		}
	}

	return out, nil
}

// parseMigration extracts the Up and Down sections:
//
//	-- +migrate Up
//	SQL statements...
//	-- +migrate Down
//	SQL statements...
//
// A file without markers is all Up.
func parseMigration(content string) (upSQL, downSQL string) {
	upIdx := strings.Index(content, upMarker)
	downIdx := strings.Index(content, downMarker)

	switch {
	case upIdx == -1:
		return strings.TrimSpace(content), ""
	case downIdx == -1:
		return strings.TrimSpace(content[upIdx+len(upMarker):]), ""
	case upIdx < downIdx:
		return strings.TrimSpace(content[upIdx+len(upMarker) : downIdx]),
			strings.TrimSpace(content[downIdx+len(downMarker):])
	default:
		return strings.TrimSpace(content[upIdx+len(upMarker):]),
			strings.TrimSpace(content[downIdx+len(downMarker) : upIdx])
	}
}

func (m *Migrator) ensureMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	return err
}

// CurrentVersion returns the highest applied version, 0 for a new file.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	var version int
	err := m.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_migrations",
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("querying current version: %w", err)
	}
	return version, nil
}

// PendingMigrations returns migrations newer than the current version.
func (m *Migrator) PendingMigrations(ctx context.Context) ([]Migration, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range m.migrations {
		if mig.Version > current {
			pending = append(pending, mig)
		}
	}

	return pending, nil
}

// MigrateUp runs all pending migrations, each in its own transaction.
func (m *Migrator) MigrateUp(ctx context.Context) (*MigrationResult, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{CurrentVersion: current, TargetVersion: current}

	pending, err := m.PendingMigrations(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		slog.Debug("database is up to date", "version", current)
		return result, nil
	}

	result.TargetVersion = pending[len(pending)-1].Version

	for _, mig := range pending {
		slog.Info("applying migration", "version", mig.Version, "description", mig.Description)

		err := m.run(ctx, mig.UpSQL,
			"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
			mig.Version, mig.Description)
		if err != nil {
			return result, fmt.Errorf("migration %d failed: %w", mig.Version, err)
		}

		mig.Applied = true
		mig.AppliedAt = time.Now()
		result.Applied = append(result.Applied, mig)
	}

	slog.Info("migrations complete", "from", current, "to", result.TargetVersion, "applied", len(result.Applied))
	return result, nil
}

// MigrateDown rolls back the most recent migration.
func (m *Migrator) MigrateDown(ctx context.Context) (*MigrationResult, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{CurrentVersion: current, TargetVersion: current}
	if current == 0 {
		return result, errors.New("no migrations to roll back")
	}

	idx := sort.Search(len(m.migrations), func(i int) bool { return m.migrations[i].Version >= current })
	if idx == len(m.migrations) || m.migrations[idx].Version != current {
		return result, fmt.Errorf("migration %d not found", current)
	}
	mig := m.migrations[idx]

	if mig.DownSQL == "" {
		return result, fmt.Errorf("migration %d has no rollback SQL", current)
	}

	slog.Info("rolling back migration", "version", mig.Version, "description", mig.Description)

	err = m.run(ctx, mig.DownSQL, "DELETE FROM schema_migrations WHERE version = ?", mig.Version)
	if err != nil {
		return result, fmt.Errorf("rollback %d failed: %w", mig.Version, err)
	}

	result.Applied = append(result.Applied, mig)
	if idx > 0 {
		result.TargetVersion = m.migrations[idx-1].Version
	} else {
		result.TargetVersion = 0
	}
	return result, nil
}

// run executes script and then the bookkeeping statement in one transaction.
func (m *Migrator) run(ctx context.Context, script, record string, args ...any) error {
	return m.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range splitStatements(script) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("executing statement: %w\nSQL: %s", err, stmt)
			}
		}

		if _, err := tx.ExecContext(ctx, record, args...); err != nil {
			return fmt.Errorf("recording migration: %w", err)
		}
		return nil
	})
}

// Status returns every known migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("querying applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt string
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		t, _ := time.Parse(time.DateTime, appliedAt)
		applied[version] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	result := make([]Migration, len(m.migrations))
	for i, mig := range m.migrations {
		result[i] = mig
		if t, ok := applied[mig.Version]; ok {
			result[i].Applied = true
			result[i].AppliedAt = t
		}
	}

	return result, nil
}

// splitStatements splits a script on semicolons outside quoted strings.
// Full-line "--" comments are dropped first.
func splitStatements(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	script = strings.Join(lines, "\n")

	var (
		statements []string
		current    strings.Builder
		quote      rune
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, ch := range script {
		switch {
		case quote != 0:
			current.WriteRune(ch)
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
			current.WriteRune(ch)
		case ch == ';':
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()

	return statements
}
