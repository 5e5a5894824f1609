package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults for the operational knobs the YAML config may override.
const (
	DefaultMaxFileMB = 4
	DefaultBatchSize = 500
)

// Config holds all runtime configuration for a claimload run.
type Config struct {
	DSN       string
	LogFormat string // "text" or "json"

	// upload
	Files []string
	Mode  string // "append" or "overwrite"

	// load
	FilePath string
	Format   string // "csv", "json", or "parquet"
	Clear    bool

	// ops overrides (YAML)
	MaxFileMB int `yaml:"max_file_mb"`
	BatchSize int `yaml:"batch_size"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	MaxFileMB int `yaml:"max_file_mb"`
	BatchSize int `yaml:"batch_size"`
}

// LoadFromFile reads a YAML config file and merges its values into
// Config. Zero values keep the defaults.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.MaxFileMB < 0 || yc.BatchSize < 0 {
		return fmt.Errorf("config values must be positive")
	}
	c.MaxFileMB = yc.MaxFileMB
	c.BatchSize = yc.BatchSize
	return nil
}

// MaxFileBytes returns the per-file upload cap in bytes.
func (c *Config) MaxFileBytes() int64 {
	mb := c.MaxFileMB
	if mb == 0 {
		mb = DefaultMaxFileMB
	}
	return int64(mb) * 1024 * 1024
}

// EffectiveBatchSize returns the bulk statement chunk size.
func (c *Config) EffectiveBatchSize() int {
	if c.BatchSize == 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

// ValidateDSN checks the connection string is present.
func (c *Config) ValidateDSN() error {
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}

// ValidateUpload checks the upload command's inputs.
func (c *Config) ValidateUpload() error {
	if err := c.ValidateDSN(); err != nil {
		return err
	}
	if len(c.Files) == 0 {
		return fmt.Errorf("at least one --file is required")
	}
	if len(c.Files) > 2 {
		return fmt.Errorf("at most two files per upload")
	}
	for _, f := range c.Files {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("file not accessible: %w", err)
		}
	}
	if c.Mode != "append" && c.Mode != "overwrite" {
		return fmt.Errorf("--mode must be append or overwrite")
	}
	return nil
}

// ValidateLoad checks the load command's inputs.
func (c *Config) ValidateLoad() error {
	if err := c.ValidateDSN(); err != nil {
		return err
	}
	if c.FilePath == "" {
		return fmt.Errorf("a file path is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	switch strings.ToLower(c.Format) {
	case "csv", "json", "parquet":
		return nil
	default:
		return fmt.Errorf("--format must be csv, json, or parquet")
	}
}
