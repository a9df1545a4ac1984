// Package config loads and validates pdfprep configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hleroy/pdfprep/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Bounds for limit settings.
const (
	MinMaxSizeMB   = 1
	MaxMaxSizeMB   = 1024
	MaxMaxAttempts = 100
)

// Config holds all configuration for document preparation.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Limits     LimitsConfig     `yaml:"limits"`
	Validation ValidationConfig `yaml:"validation"`
	Tools      ToolsConfig      `yaml:"tools"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// LimitsConfig defines the partitioning budget.
// Zero values fall back to the library defaults.
type LimitsConfig struct {
	MaxSizeMB    int     `yaml:"maxSizeMB"`    // per-part byte ceiling in MiB
	SafetyMargin float64 `yaml:"safetyMargin"` // estimation discount (0 < m <= 1)
	MaxAttempts  int     `yaml:"maxAttempts"`  // per-segment attempt ceiling
}

// ValidationConfig defines the compliance checks run between conversion
// and partitioning.
type ValidationConfig struct {
	Enabled              bool    `yaml:"enabled"`
	RequireEmbeddedFonts bool    `yaml:"requireEmbeddedFonts"`
	ForbidEncryption     bool    `yaml:"forbidEncryption"`
	MaxPageWidthPts      float64 `yaml:"maxPageWidthPts"`  // 0 = no geometry check
	MaxPageHeightPts     float64 `yaml:"maxPageHeightPts"` // 0 = no geometry check
}

// ToolsConfig overrides external binary locations (empty = PATH lookup).
type ToolsConfig struct {
	QPDF        string `yaml:"qpdf"`
	PDFInfo     string `yaml:"pdfinfo"`
	PDFFonts    string `yaml:"pdffonts"`
	Ghostscript string `yaml:"ghostscript"`
	Soffice     string `yaml:"soffice"`
	Magick      string `yaml:"magick"`
}

// Validate checks limit bounds. Called automatically by LoadConfig, but
// available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if c.Limits.MaxSizeMB != 0 {
		if c.Limits.MaxSizeMB < MinMaxSizeMB || c.Limits.MaxSizeMB > MaxMaxSizeMB {
			return fmt.Errorf("limits.maxSizeMB: must be between %d and %d, got %d",
				MinMaxSizeMB, MaxMaxSizeMB, c.Limits.MaxSizeMB)
		}
	}
	if c.Limits.SafetyMargin != 0 {
		if c.Limits.SafetyMargin <= 0 || c.Limits.SafetyMargin > 1 {
			return fmt.Errorf("limits.safetyMargin: must be greater than 0 and at most 1, got %.2f",
				c.Limits.SafetyMargin)
		}
	}
	if c.Limits.MaxAttempts != 0 {
		if c.Limits.MaxAttempts < 1 || c.Limits.MaxAttempts > MaxMaxAttempts {
			return fmt.Errorf("limits.maxAttempts: must be between 1 and %d, got %d",
				MaxMaxAttempts, c.Limits.MaxAttempts)
		}
	}
	if c.Validation.MaxPageWidthPts < 0 {
		return fmt.Errorf("validation.maxPageWidthPts: must not be negative, got %.2f",
			c.Validation.MaxPageWidthPts)
	}
	if c.Validation.MaxPageHeightPts < 0 {
		return fmt.Errorf("validation.maxPageHeightPts: must not be negative, got %.2f",
			c.Validation.MaxPageHeightPts)
	}
	return nil
}

// DefaultConfig returns a configuration with validation enabled and all
// limits deferring to the library defaults.
func DefaultConfig() *Config {
	return &Config{
		Validation: ValidationConfig{
			Enabled:              true,
			RequireEmbeddedFonts: true,
			ForbidEncryption:     true,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/pdfprep/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "pdfprep", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
