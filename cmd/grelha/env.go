package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mestredagrelha/grelha/internal/config"
	"github.com/mestredagrelha/grelha/internal/database"
	"github.com/mestredagrelha/grelha/internal/delegate/gemini"
	"github.com/mestredagrelha/grelha/internal/freetext"
	"github.com/mestredagrelha/grelha/internal/repository"
	"github.com/mestredagrelha/grelha/internal/services/inventory"
)

// env is everything a command needs once startup is done.
type env struct {
	cfg     *config.Config
	cfgPath string
	db      *database.DB
	svc     *inventory.Service

	closers []io.Closer
}

// envOptions selects the optional parts of startup.
type envOptions struct {
	// delegate builds the language delegate when enabled in config.
	delegate bool
	// skipLoad opens and migrates the database without loading the
	// registry.
	skipLoad bool
}

// openEnv loads configuration, sets up logging, recovers and opens the
// database, applies migrations and loads the inventory.
func openEnv(ctx context.Context, opts envOptions) (*env, error) {
	e := &env{}

	cfg, cfgPath, err := config.Load(globalFlags.configPath, true)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	e.cfg, e.cfgPath = cfg, cfgPath

	if err := e.setupLogging(); err != nil {
		e.Close()
		return nil, err
	}

	slog.Info("grelha starting",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cfgPath,
	)

	if err := e.openDatabase(ctx); err != nil {
		e.Close()
		return nil, err
	}

	if opts.skipLoad {
		return e, nil
	}

	var delegate freetext.Delegate
	if opts.delegate {
		delegate = newDelegate(ctx, cfg)
	}

	svc, err := inventory.FromConfig(cfg, repository.NewStore(e.db.DB), delegate)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("creating inventory: %w", err)
	}
	if err := svc.Load(ctx); err != nil {
		e.Close()
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	e.svc = svc

	return e, nil
}

func (e *env) setupLogging() error {
	logLevel := slog.LevelInfo
	if globalFlags.debug {
		logLevel = slog.LevelDebug
	} else {
		switch e.cfg.Logging.Level {
		case config.LogLevelDebug:
			logLevel = slog.LevelDebug
		case config.LogLevelWarn:
			logLevel = slog.LevelWarn
		case config.LogLevelError:
			logLevel = slog.LevelError
		}
	}

	// Create log file if configured
	var logHandler slog.Handler
	logPath, err := config.EnsureLogDir(e.cfg)
	if err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		e.closers = append(e.closers, logFile)

		logHandler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		logHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		})
	}

	slog.SetDefault(slog.New(logHandler))
	return nil
}

func (e *env) openDatabase(ctx context.Context) error {
	dbPath, err := config.EnsureDataDir(e.cfg)
	if err != nil {
		return fmt.Errorf("ensuring data directory: %w", err)
	}

	backupDir, err := config.BackupDir(e.cfg)
	if err != nil {
		slog.Warn("failed to create backup directory", "error", err)
		backupDir = ""
	}

	// Attempt database recovery if needed
	report, err := database.Recover(dbPath, backupDir)
	if err != nil {
		return fmt.Errorf("database recovery failed: %w", err)
	}
	switch report.Result {
	case database.RecoveryFromBackup:
		slog.Warn("database restored from backup",
			"backup", report.BackupUsed,
			"preserved", report.PreservedCopy,
		)
	case database.RecoveryNotNeeded:
		slog.Debug("database integrity verified")
	}

	db, err := database.Open(dbPath, &e.cfg.Database, backupDir)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	e.db = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}

	migrator, err := database.NewMigrator(db)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	result, err := migrator.MigrateUp(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if len(result.Applied) > 0 {
		slog.Info("applied migrations",
			"count", len(result.Applied),
			"to_version", result.TargetVersion,
		)
	}

	return nil
}

// newDelegate returns the Gemini delegate, or nil when it is disabled or
// has no credential. A missing key is not an error: the app runs without
// the sentence path.
func newDelegate(ctx context.Context, cfg *config.Config) freetext.Delegate {
	if !cfg.Delegate.Enabled {
		return nil
	}

	key, err := gemini.LoadAPIKey(cfg.Delegate.APIKeyEnv, cfg.Delegate.EnvFile)
	if err != nil {
		if errors.Is(err, gemini.ErrMissingCredential) {
			slog.Info("language delegate disabled", "reason", err)
		} else {
			slog.Warn("language delegate disabled", "error", err)
		}
		return nil
	}

	d, err := gemini.New(ctx, gemini.Config{
		APIKey:   key,
		Model:    cfg.Delegate.Model,
		PackSize: cfg.Inventory.PackSize,
	})
	if err != nil {
		slog.Warn("language delegate disabled", "error", err)
		return nil
	}

	slog.Info("language delegate enabled", "model", cfg.Delegate.Model)
	return d
}

// Close releases the database and the log file.
func (e *env) Close() {
	if e.db != nil {
		slog.Info("closing database")
		if err := e.db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}
	for _, c := range e.closers {
		c.Close()
	}
}
