// Package config provides configuration management for Grelha.
// Configurations are loaded from TOML files with XDG-compliant paths.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Inventory InventoryConfig `toml:"inventory"`
	Display   DisplayConfig   `toml:"display"`
	Logging   LoggingConfig   `toml:"logging"`
	Database  DatabaseConfig  `toml:"database"`
	Delegate  DelegateConfig  `toml:"delegate"`
	Report    ReportConfig    `toml:"report"`
}

// StoreConfig identifies the shop in reports and the header.
type StoreConfig struct {
	Name string `toml:"name"`
}

// InventoryConfig holds the business constants of the stock count.
type InventoryConfig struct {
	// PackSize is how many skewers one pack holds.
	PackSize int `toml:"pack_size"`

	// Catalog replaces the built-in item list when not empty. It is used
	// at first run and by a hard reset.
	Catalog []CatalogItem `toml:"catalog"`

	// NumberWords extends the quantity words understood in free text.
	NumberWords map[string]int `toml:"number_words"`
}

// CatalogItem is one configured catalog entry. ID is derived from Name
// when left empty.
type CatalogItem struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// DisplayConfig controls TUI appearance.
type DisplayConfig struct {
	ColorScheme ColorScheme `toml:"color_scheme"`
	ShowTotals  bool        `toml:"show_totals"`
}

// ColorScheme defines the terminal color palette.
type ColorScheme string

const (
	ColorSchemeEmber    ColorScheme = "ember"
	ColorSchemeCharcoal ColorScheme = "charcoal"
	ColorSchemeMono     ColorScheme = "mono"
)

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level LogLevel `toml:"level"`
	File  string   `toml:"file"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// DatabaseConfig controls SQLite database settings.
type DatabaseConfig struct {
	Path                string `toml:"path"`
	BackupIntervalHours int    `toml:"backup_interval_hours"`
	BackupRetentionDays int    `toml:"backup_retention_days"`
}

// DelegateConfig controls the optional language-model path.
type DelegateConfig struct {
	Enabled        bool   `toml:"enabled"`
	Model          string `toml:"model"`
	APIKeyEnv      string `toml:"api_key_env"`
	EnvFile        string `toml:"env_file"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ReportConfig controls report sharing.
type ReportConfig struct {
	// CountryCode is prefixed to the contact phone in share links.
	CountryCode string `toml:"country_code"`
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Store.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}

	if err := c.Inventory.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("inventory: %w", err))
	}

	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}

	if err := c.Delegate.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("delegate: %w", err))
	}

	if err := c.Report.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("report: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the store configuration is valid.
func (s *StoreConfig) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

var catalogID = regexp.MustCompile(`^[a-z0-9_]+$`)

// Validate checks that the inventory configuration is valid.
func (i *InventoryConfig) Validate() error {
	var errs []error

	if i.PackSize < 1 {
		errs = append(errs, errors.New("pack_size must be positive"))
	}

	seen := make(map[string]bool, len(i.Catalog))
	for n, item := range i.Catalog {
		if strings.TrimSpace(item.Name) == "" {
			errs = append(errs, fmt.Errorf("catalog[%d]: name is required", n))
		}
		if item.ID == "" {
			continue
		}
		if !catalogID.MatchString(item.ID) {
			errs = append(errs, fmt.Errorf("catalog[%d]: invalid id %q (want [a-z0-9_]+)", n, item.ID))
		}
		if seen[item.ID] {
			errs = append(errs, fmt.Errorf("catalog[%d]: duplicate id %q", n, item.ID))
		}
		seen[item.ID] = true
	}

	for word, value := range i.NumberWords {
		if strings.TrimSpace(word) == "" {
			errs = append(errs, errors.New("number_words: empty word"))
		}
		if value < 0 {
			errs = append(errs, fmt.Errorf("number_words: %q must be non-negative", word))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the display configuration is valid.
func (d *DisplayConfig) Validate() error {
	validSchemes := map[ColorScheme]bool{
		ColorSchemeEmber:    true,
		ColorSchemeCharcoal: true,
		ColorSchemeMono:     true,
	}

	if !validSchemes[d.ColorScheme] && d.ColorScheme != "" {
		return fmt.Errorf("invalid color_scheme: %s", d.ColorScheme)
	}

	return nil
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}

	if !validLevels[l.Level] && l.Level != "" {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	return nil
}

// Validate checks that the database configuration is valid.
func (d *DatabaseConfig) Validate() error {
	var errs []error

	if d.Path == "" {
		errs = append(errs, errors.New("path is required"))
	}

	if d.BackupIntervalHours < 0 {
		errs = append(errs, errors.New("backup_interval_hours must be non-negative"))
	}

	if d.BackupRetentionDays < 0 {
		errs = append(errs, errors.New("backup_retention_days must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the delegate configuration is valid.
func (d *DelegateConfig) Validate() error {
	if !d.Enabled {
		return nil
	}

	var errs []error

	if d.Model == "" {
		errs = append(errs, errors.New("model is required when enabled"))
	}

	if d.APIKeyEnv == "" {
		errs = append(errs, errors.New("api_key_env is required when enabled"))
	}

	if d.TimeoutSeconds < 1 || d.TimeoutSeconds > 120 {
		errs = append(errs, errors.New("timeout_seconds must be between 1 and 120"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Timeout returns the delegate call timeout.
func (d *DelegateConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

var countryCode = regexp.MustCompile(`^[0-9]{1,3}$`)

// Validate checks that the report configuration is valid.
func (r *ReportConfig) Validate() error {
	if !countryCode.MatchString(r.CountryCode) {
		return fmt.Errorf("country_code must be 1 to 3 digits, got %q", r.CountryCode)
	}
	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Name: "Grelha",
		},
		Inventory: InventoryConfig{
			PackSize: 10,
		},
		Display: DisplayConfig{
			ColorScheme: ColorSchemeEmber,
			ShowTotals:  true,
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			File:  "logs/grelha.log",
		},
		Database: DatabaseConfig{
			Path:                "grelha.db",
			BackupIntervalHours: 24,
			BackupRetentionDays: 14,
		},
		Delegate: DelegateConfig{
			Enabled:        true,
			Model:          "gemini-2.5-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			EnvFile:        ".env.local",
			TimeoutSeconds: 15,
		},
		Report: ReportConfig{
			CountryCode: "55",
		},
	}
}
