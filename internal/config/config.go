// Package config provides configuration loading for the SDK tooling.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the tooling configuration.
type Config struct {
	// API client settings
	API APIConfig `yaml:"api"`

	// SDK generation settings
	Generator GeneratorConfig `yaml:"generator"`

	// Documentation settings
	Docs DocsConfig `yaml:"docs"`

	// Snapshot storage settings
	Storage StorageConfig `yaml:"storage"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig contains settings for the Hyblock API client.
type APIConfig struct {
	// Per-request timeout
	Timeout time.Duration `yaml:"timeout"`

	// Client-side request pacing (requests per minute, 0 disables)
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// Default market selectors used by the example commands
	Coin      string   `yaml:"coin"`
	Timeframe string   `yaml:"timeframe"`
	Exchanges []string `yaml:"exchanges"`
}

// GeneratorConfig contains settings for the generation pipeline.
type GeneratorConfig struct {
	// OpenAPI document location
	SpecURL string `yaml:"spec_url"`

	// Generator package configuration file (JSON)
	ConfigFile string `yaml:"config_file"`

	// Generator executable
	Binary string `yaml:"binary"`

	// Generator language target (-g)
	Lang string `yaml:"lang"`

	// Directory the generated SDK is moved into
	SDKDir string `yaml:"sdk_dir"`

	// Sub-directory of the generator output holding the SDK sources
	SourceSubdir string `yaml:"source_subdir"`

	// Files from the generator output copied next to the project as <name>.generated
	ReferenceFiles []string `yaml:"reference_files"`

	// Skip the go mod tidy / gofmt / go build steps
	SkipPostSteps bool `yaml:"skip_post_steps"`
}

// DocsConfig contains documentation stamper settings.
type DocsConfig struct {
	// Output directory for markdown pages
	OutputDir string `yaml:"output_dir"`

	// Directory holding the generated SDK sources
	SDKDir string `yaml:"sdk_dir"`

	// Go import path of the generated SDK used in snippets
	ImportPath string `yaml:"import_path"`
}

// StorageConfig contains snapshot storage settings.
type StorageConfig struct {
	// Storage type: "file" or "none"
	Type string `yaml:"type"`

	// Output directory for file storage
	OutputDir string `yaml:"output_dir"`

	// File rotation interval
	RotationInterval time.Duration `yaml:"rotation_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `yaml:"level"`

	// Log format: text or json
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Timeout:           30 * time.Second,
			RequestsPerMinute: 60,
			Coin:              "BTC",
			Timeframe:         "1h",
			Exchanges:         []string{"binance", "bybit"},
		},
		Generator: GeneratorConfig{
			SpecURL:        "https://api.hyblock.capital/swagger.json",
			ConfigFile:     "openapi-generator-config.json",
			Binary:         "openapi-generator-cli",
			Lang:           "go",
			SDKDir:         "hyblockcapital",
			ReferenceFiles: []string{"README.md", "go.mod"},
		},
		Docs: DocsConfig{
			OutputDir:  "docs",
			SDKDir:     "hyblockcapital",
			ImportPath: "github.com/johan/hyblock-capital-sdk/hyblockcapital",
		},
		Storage: StorageConfig{
			Type:             "none",
			OutputDir:        "data",
			RotationInterval: 1 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// LoadOrDefault loads the file at path, falling back to defaults when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Storage.Type != "file" && c.Storage.Type != "none" {
		return fmt.Errorf("invalid storage type: %s", c.Storage.Type)
	}
	if c.Storage.Type == "file" && c.Storage.OutputDir == "" {
		return fmt.Errorf("output_dir required for file storage")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}
	if c.API.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must not be negative")
	}
	if c.Generator.SpecURL == "" {
		return fmt.Errorf("generator spec_url required")
	}
	if c.Generator.Binary == "" || c.Generator.Lang == "" {
		return fmt.Errorf("generator binary and lang required")
	}
	if c.Generator.SDKDir == "" {
		return fmt.Errorf("generator sdk_dir required")
	}
	if c.Docs.OutputDir == "" {
		return fmt.Errorf("docs output_dir required")
	}
	return nil
}
