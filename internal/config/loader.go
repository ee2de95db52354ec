package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultConfigFileName is the standard configuration file name.
	DefaultConfigFileName = "grelha.toml"

	// XDGConfigSubdir is the subdirectory under XDG_CONFIG_HOME for grelha.
	XDGConfigSubdir = "grelha"
)

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading config from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load attempts to load configuration from multiple sources in order of precedence:
// 1. Explicit path (if provided)
// 2. XDG config path (~/.config/grelha/grelha.toml)
// 3. Current working directory (./grelha.toml)
// 4. Default configuration (if createDefault is true)
//
// Returns the loaded configuration and the path it was loaded from.
func Load(explicitPath string, createDefault bool) (*Config, string, error) {
	// If explicit path provided, use only that
	if explicitPath != "" {
		cfg, err := loadFromFile(explicitPath)
		if err != nil {
			return nil, "", &LoadError{Path: explicitPath, Err: err}
		}
		return cfg, explicitPath, nil
	}

	xdgPath := xdgConfigPath()
	cwdPath := filepath.Join(".", DefaultConfigFileName)

	for _, p := range []string{xdgPath, cwdPath} {
		if p == "" || !fileExists(p) {
			continue
		}
		cfg, err := loadFromFile(p)
		if err != nil {
			return nil, "", &LoadError{Path: p, Err: err}
		}
		return cfg, p, nil
	}

	// No config file found
	if !createDefault {
		return nil, "", errors.New("no configuration file found; searched: " + xdgPath + ", " + cwdPath)
	}

	// Create default configuration
	cfg := Default()

	// Determine where to write the default config
	defaultPath := cwdPath
	if xdgPath != "" {
		// Prefer XDG path if we can create the directory
		if err := os.MkdirAll(filepath.Dir(xdgPath), 0750); err == nil {
			defaultPath = xdgPath
		}
	}

	// Write default configuration
	if err := Save(cfg, defaultPath); err != nil {
		// Continue with in-memory default if we can't write
		return cfg, "", nil
	}

	return cfg, defaultPath, nil
}

// loadFromFile reads and parses a TOML configuration file.
func loadFromFile(path string) (*Config, error) {
	// Start with defaults so missing values get sensible defaults
	cfg := Default()

	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	// Parse TOML
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("ignoring unknown config keys", "path", path, "keys", keys)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Save writes a configuration to a TOML file.
func Save(cfg *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	// Create or truncate file
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	// Write header comment
	header := `# Grelha configuration file
#
# This file was auto-generated. Edit as needed.
# [[inventory.catalog]] entries replace the built-in skewer list.
# The delegate API key is read from the variable named in api_key_env,
# optionally loaded from env_file.

`
	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	// Encode TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}

	return nil
}

// xdgConfigPath returns the XDG-compliant config file path.
// Returns empty string if XDG_CONFIG_HOME is not set and HOME is not available.
func xdgConfigPath() string {
	// Check XDG_CONFIG_HOME first
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig != "" {
		return filepath.Join(xdgConfig, XDGConfigSubdir, DefaultConfigFileName)
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", XDGConfigSubdir, DefaultConfigFileName)
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ConfigPath returns the configuration file path that would be used.
// Useful for displaying to users.
func ConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	xdgPath := xdgConfigPath()
	if xdgPath != "" && fileExists(xdgPath) {
		return xdgPath
	}

	cwdPath := filepath.Join(".", DefaultConfigFileName)
	if fileExists(cwdPath) {
		return cwdPath
	}

	// Return XDG path as the preferred location for new configs
	if xdgPath != "" {
		return xdgPath
	}

	return cwdPath
}

// dataHome returns the XDG data directory for grelha, or "" when neither
// XDG_DATA_HOME nor HOME is available.
func dataHome() string {
	xdgData := os.Getenv("XDG_DATA_HOME")
	if xdgData == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdgData = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(xdgData, XDGConfigSubdir)
}

// resolveDataPath places a relative path under the data directory and
// makes sure its parent directory exists. Absolute paths are kept.
func resolveDataPath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		if home := dataHome(); home != "" {
			p = filepath.Join(home, p)
		}
	}

	dir := filepath.Dir(p)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return p, nil
}

// EnsureDataDir creates the data directory for the database if needed.
// Returns the path to the database file.
func EnsureDataDir(cfg *Config) (string, error) {
	return resolveDataPath(cfg.Database.Path)
}

// EnsureLogDir creates the log directory if needed. Returns the path to the
// log file, or "" when file logging is disabled.
func EnsureLogDir(cfg *Config) (string, error) {
	if cfg.Logging.File == "" {
		return "", nil
	}
	return resolveDataPath(cfg.Logging.File)
}

// BackupDir returns the directory for database backups, next to the
// database file.
func BackupDir(cfg *Config) (string, error) {
	dbPath, err := resolveDataPath(cfg.Database.Path)
	if err != nil {
		return "", err
	}

	backupDir := filepath.Join(filepath.Dir(dbPath), "backups")
	if err := os.MkdirAll(backupDir, 0750); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	return backupDir, nil
}
