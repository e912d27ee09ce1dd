// Package generator drives the external OpenAPI generator and organizes
// its output into the project.
package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrInvalidPackageConfig is returned for a generator config missing required fields.
var ErrInvalidPackageConfig = errors.New("invalid generator package config")

// PackageConfig is the generator configuration file passed with -c.
type PackageConfig struct {
	PackageName        string
	PackageVersion     string
	ClientPackage      string
	PackageAuthor      string
	PackageDescription string

	Library                string
	GenerateSourceCodeOnly bool

	// Options holds every other key, passed through to the generator untouched.
	Options map[string]interface{}
}

var requiredPackageFields = []string{
	"packageName",
	"packageVersion",
	"clientPackage",
	"packageAuthor",
	"packageDescription",
}

// LoadPackageConfig reads and validates a generator config file.
func LoadPackageConfig(path string) (*PackageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading generator config: %w", err)
	}
	return ParsePackageConfig(data)
}

// ParsePackageConfig parses and validates generator config JSON.
func ParsePackageConfig(data []byte) (*PackageConfig, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing generator config: %w", err)
	}

	var missing []string
	for _, field := range requiredPackageFields {
		if s, _ := raw[field].(string); strings.TrimSpace(s) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidPackageConfig, strings.Join(missing, ", "))
	}

	cfg := &PackageConfig{Options: make(map[string]interface{})}
	for key, v := range raw {
		switch key {
		case "packageName":
			cfg.PackageName = v.(string)
		case "packageVersion":
			cfg.PackageVersion = v.(string)
		case "clientPackage":
			cfg.ClientPackage = v.(string)
		case "packageAuthor":
			cfg.PackageAuthor = v.(string)
		case "packageDescription":
			cfg.PackageDescription = v.(string)
		case "library":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: library must be a string", ErrInvalidPackageConfig)
			}
			cfg.Library = s
		case "generateSourceCodeOnly":
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: generateSourceCodeOnly must be a boolean", ErrInvalidPackageConfig)
			}
			cfg.GenerateSourceCodeOnly = b
		default:
			cfg.Options[key] = v
		}
	}

	if cfg.PackageName != cfg.ClientPackage {
		return nil, fmt.Errorf("%w: packageName %q does not match clientPackage %q",
			ErrInvalidPackageConfig, cfg.PackageName, cfg.ClientPackage)
	}
	return cfg, nil
}

// OptionKeys returns the pass-through option names in sorted order.
func (c *PackageConfig) OptionKeys() []string {
	keys := make([]string, 0, len(c.Options))
	for k := range c.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
