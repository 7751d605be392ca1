package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	pserr "proofscope/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Root != "." {
		t.Errorf("Root = %q, want %q", cfg.Root, ".")
	}
	if cfg.Scan.MaxFileSizeBytes <= 0 {
		t.Error("MaxFileSizeBytes should be positive")
	}
	if cfg.Scan.UnterminatedAsProved {
		t.Error("legacy unterminated fallback should be off by default")
	}
	if len(cfg.Glob.FallbackDirs) == 0 {
		t.Error("FallbackDirs should not be empty")
	}
	if cfg.Snapshot.Path == "" {
		t.Error("Snapshot.Path should be set")
	}
	if cfg.Export.Format != "json" {
		t.Errorf("Export.Format = %q, want %q", cfg.Export.Format, "json")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad version", func(c *Config) { c.Version = 2 }, true},
		{"negative workers", func(c *Config) { c.Scan.Workers = -1 }, true},
		{"zero file size", func(c *Config) { c.Scan.MaxFileSizeBytes = 0 }, true},
		{"yaml format ok", func(c *Config) { c.Export.Format = "yaml" }, false},
		{"scip format ok", func(c *Config) { c.Export.Format = "scip" }, false},
		{"bad export format", func(c *Config) { c.Export.Format = "xml" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "pretty" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr && err == nil {
				t.Error("Validate() should return error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() returned unexpected error: %v", err)
			}
			if err != nil {
				var aerr *pserr.AnalysisError
				if !errors.As(err, &aerr) || aerr.Code != pserr.ConfigInvalid {
					t.Errorf("Validate() error = %v, want code %s", err, pserr.ConfigInvalid)
				}
				var cerr *ConfigError
				if !errors.As(err, &cerr) {
					t.Errorf("Validate() error should wrap *ConfigError, got %v", err)
				}
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	// Missing config falls back to defaults.
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Scan.Workers = 4
	cfg.Scan.UnterminatedAsProved = true
	cfg.Glob.Dir = "_build/custom"
	cfg.Export.Format = "yaml"

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".proofscope", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if loaded.Scan.Workers != 4 {
		t.Errorf("Workers = %d, want 4", loaded.Scan.Workers)
	}
	if !loaded.Scan.UnterminatedAsProved {
		t.Error("UnterminatedAsProved not preserved")
	}
	if loaded.Glob.Dir != "_build/custom" {
		t.Errorf("Glob.Dir = %q, want %q", loaded.Glob.Dir, "_build/custom")
	}
	if loaded.Export.Format != "yaml" {
		t.Errorf("Export.Format = %q, want %q", loaded.Export.Format, "yaml")
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{
		Field:   "version",
		Message: "unsupported config version",
	}

	got := err.Error()
	want := "config error in field 'version': unsupported config version"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
