package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"Empty store name", func(c *Config) { c.Store.Name = " " }, "store: name is required"},
		{"Zero pack size", func(c *Config) { c.Inventory.PackSize = 0 }, "pack_size must be positive"},
		{"Bad catalog id", func(c *Config) {
			c.Inventory.Catalog = []CatalogItem{{ID: "Bad Id", Name: "X"}}
		}, "invalid id"},
		{"Duplicate catalog id", func(c *Config) {
			c.Inventory.Catalog = []CatalogItem{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}}
		}, "duplicate id"},
		{"Unnamed catalog item", func(c *Config) {
			c.Inventory.Catalog = []CatalogItem{{ID: "a"}}
		}, "name is required"},
		{"Negative number word", func(c *Config) {
			c.Inventory.NumberWords = map[string]int{"meia": -6}
		}, "must be non-negative"},
		{"Bad color scheme", func(c *Config) { c.Display.ColorScheme = "neon" }, "invalid color_scheme"},
		{"Bad log level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"Empty db path", func(c *Config) { c.Database.Path = "" }, "path is required"},
		{"Negative backup interval", func(c *Config) { c.Database.BackupIntervalHours = -1 }, "backup_interval_hours"},
		{"Delegate without model", func(c *Config) { c.Delegate.Model = "" }, "model is required"},
		{"Delegate timeout too long", func(c *Config) { c.Delegate.TimeoutSeconds = 600 }, "timeout_seconds"},
		{"Bad country code", func(c *Config) { c.Report.CountryCode = "+55" }, "country_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_DisabledDelegateSkipsChecks(t *testing.T) {
	cfg := Default()
	cfg.Delegate = DelegateConfig{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.Store.Name = ""
	cfg.Database.Path = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "store:") || !strings.Contains(msg, "database:") {
		t.Errorf("expected both sections in error, got %q", msg)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	content := `
[store]
name = "Espetinho do Zé"

[inventory]
pack_size = 12

[[inventory.catalog]]
name = "Picanha"

[[inventory.catalog]]
id = "kafta"
name = "Kafta"

[inventory.number_words]
duzia = 12

[report]
country_code = "351"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, loadedFrom, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loadedFrom != path {
		t.Errorf("loaded from %q, want %q", loadedFrom, path)
	}
	if cfg.Store.Name != "Espetinho do Zé" || cfg.Inventory.PackSize != 12 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if len(cfg.Inventory.Catalog) != 2 || cfg.Inventory.Catalog[1].ID != "kafta" {
		t.Errorf("unexpected catalog: %+v", cfg.Inventory.Catalog)
	}
	if cfg.Inventory.NumberWords["duzia"] != 12 {
		t.Errorf("unexpected number words: %v", cfg.Inventory.NumberWords)
	}
	if cfg.Report.CountryCode != "351" {
		t.Errorf("country code = %q", cfg.Report.CountryCode)
	}
	// Untouched sections keep their defaults.
	if cfg.Database.Path != "grelha.db" || cfg.Delegate.Model != "gemini-2.5-flash" {
		t.Errorf("defaults not preserved: %+v %+v", cfg.Database, cfg.Delegate)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[inventory]\npack_size = 0\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, _, err := Load(path, false)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
	if loadErr.Path != path {
		t.Errorf("LoadError.Path = %q", loadErr.Path)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.toml"), false)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoad_CreatesDefault(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())

	cfg, path, err := Load("", true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := filepath.Join(xdg, XDGConfigSubdir, DefaultConfigFileName)
	if path != want {
		t.Errorf("default written to %q, want %q", path, want)
	}
	if cfg.Store.Name != "Grelha" {
		t.Errorf("unexpected store name %q", cfg.Store.Name)
	}

	reloaded, _, err := Load(path, false)
	if err != nil {
		t.Fatalf("reloading default: %v", err)
	}
	if reloaded.Inventory.PackSize != cfg.Inventory.PackSize {
		t.Error("saved default did not round-trip")
	}
}

func TestLoad_NoFileNoDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if _, _, err := Load("", false); err == nil {
		t.Error("expected error when no config exists")
	}
}

func TestDataPaths(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	cfg := Default()
	dbPath, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir() error = %v", err)
	}
	if want := filepath.Join(data, XDGConfigSubdir, "grelha.db"); dbPath != want {
		t.Errorf("db path = %q, want %q", dbPath, want)
	}

	backups, err := BackupDir(cfg)
	if err != nil {
		t.Fatalf("BackupDir() error = %v", err)
	}
	if info, err := os.Stat(backups); err != nil || !info.IsDir() {
		t.Errorf("backup dir %q not created", backups)
	}

	logPath, err := EnsureLogDir(cfg)
	if err != nil {
		t.Fatalf("EnsureLogDir() error = %v", err)
	}
	if want := filepath.Join(data, XDGConfigSubdir, "logs", "grelha.log"); logPath != want {
		t.Errorf("log path = %q, want %q", logPath, want)
	}

	cfg.Logging.File = ""
	if p, _ := EnsureLogDir(cfg); p != "" {
		t.Errorf("expected file logging disabled, got %q", p)
	}

	abs := filepath.Join(t.TempDir(), "x", "stock.db")
	cfg.Database.Path = abs
	if p, _ := EnsureDataDir(cfg); p != abs {
		t.Errorf("absolute path changed: %q", p)
	}
}

func TestDelegateTimeout(t *testing.T) {
	d := DelegateConfig{TimeoutSeconds: 7}
	if d.Timeout().Seconds() != 7 {
		t.Errorf("Timeout() = %v", d.Timeout())
	}
}
