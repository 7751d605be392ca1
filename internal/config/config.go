// Package config loads and validates the analyzer configuration from
// .proofscope/config.json under the project root.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	pserr "proofscope/internal/errors"
)

// Config represents the complete analyzer configuration (v1 schema)
type Config struct {
	Version int    `json:"version" mapstructure:"version"`
	Root    string `json:"root" mapstructure:"root"`

	Scan     ScanConfig     `json:"scan" mapstructure:"scan"`
	Glob     GlobConfig     `json:"glob" mapstructure:"glob"`
	Snapshot SnapshotConfig `json:"snapshot" mapstructure:"snapshot"`
	Export   ExportConfig   `json:"export" mapstructure:"export"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// ScanConfig controls the per-file scanning pass
type ScanConfig struct {
	// Workers is the number of concurrent file scanners; 0 means one
	// per CPU.
	Workers int `json:"workers" mapstructure:"workers"`
	// MaxFileSizeBytes skips files larger than this
	MaxFileSizeBytes int `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
	// Ignore lists directory names excluded from source discovery
	Ignore []string `json:"ignore" mapstructure:"ignore"`
	// UnterminatedAsProved restores the legacy behavior of reporting
	// a proof that never reaches a terminator as proved instead of
	// unterminated.
	UnterminatedAsProved bool `json:"unterminatedAsProved" mapstructure:"unterminatedAsProved"`
}

// GlobConfig controls the compiler-metadata front-end
type GlobConfig struct {
	// Dir overrides where .glob files are looked up; empty means next
	// to each source file, then the build-tree fallbacks.
	Dir string `json:"dir" mapstructure:"dir"`
	// FallbackDirs is searched, in order, when no .glob sits next to
	// the source file.
	FallbackDirs []string `json:"fallbackDirs" mapstructure:"fallbackDirs"`
}

// SnapshotConfig controls graph persistence
type SnapshotConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// ExportConfig controls report output
type ExportConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Output string `json:"output" mapstructure:"output"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Root:    ".",
		Scan: ScanConfig{
			Workers:          0,
			MaxFileSizeBytes: 10000000,
			Ignore:           []string{".git", "_build", "node_modules"},
		},
		Glob: GlobConfig{
			FallbackDirs: []string{"_build/default", "_build"},
		},
		Snapshot: SnapshotConfig{
			Path:     ".proofscope/snapshot.db",
			Compress: true,
		},
		Export: ExportConfig{
			Format: "json",
			Output: "-",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .proofscope/config.json
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("root", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".proofscope"))

	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .proofscope/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".proofscope")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid. Failures carry the
// ConfigInvalid code with the offending field wrapped underneath.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return pserr.New(pserr.ConfigInvalid, "invalid configuration", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Scan.Workers < 0 {
		return &ConfigError{Field: "scan.workers", Message: "must be >= 0"}
	}
	if c.Scan.MaxFileSizeBytes <= 0 {
		return &ConfigError{Field: "scan.maxFileSizeBytes", Message: "must be > 0"}
	}
	switch c.Export.Format {
	case "json", "yaml", "scip":
	default:
		return &ConfigError{Field: "export.format", Message: "must be json, yaml, or scip"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
