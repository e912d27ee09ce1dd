// Package project checks the scaffolding files the SDK workflow depends on.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/johan/hyblock-capital-sdk/internal/generator"
)

// Expected scaffolding.
var (
	MakefileTargets = []string{"help", "install", "generate", "docs", "test", "lint", "fmt", "build", "clean", "examples"}

	GitignoreEntries = []string{".env", "hyblockcapital/", "*.backup", "*.generated", "swagger.json", "generated/", "data/", ".idea/", ".vscode/"}

	ReadmeSections = []string{"## Installation", "## Configuration", "## Generating the SDK", "## Examples", "## Testing"}

	EnvVars = []string{"HYBLOCK_API_KEY", "HYBLOCK_API_SECRET", "HYBLOCK_API_URL"}
)

// ErrMissing marks a missing file, target, entry or section.
var ErrMissing = errors.New("missing")

// CheckMakefile verifies that every target is defined in the Makefile.
func CheckMakefile(root string, targets ...string) error {
	content, err := read(root, "Makefile")
	if err != nil {
		return err
	}
	var errs []error
	for _, t := range targets {
		re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(t) + `:`)
		if !re.MatchString(content) {
			errs = append(errs, fmt.Errorf("Makefile: %w target %q", ErrMissing, t))
		}
	}
	return errors.Join(errs...)
}

// CheckGitignore verifies that every entry appears as a line of .gitignore.
func CheckGitignore(root string, entries ...string) error {
	content, err := read(root, ".gitignore")
	if err != nil {
		return err
	}
	lines := make(map[string]bool)
	for _, l := range strings.Split(content, "\n") {
		lines[strings.TrimSpace(l)] = true
	}
	var errs []error
	for _, e := range entries {
		if !lines[e] {
			errs = append(errs, fmt.Errorf(".gitignore: %w entry %q", ErrMissing, e))
		}
	}
	return errors.Join(errs...)
}

// CheckReadme verifies that every section heading appears in README.md.
func CheckReadme(root string, sections ...string) error {
	content, err := read(root, "README.md")
	if err != nil {
		return err
	}
	var errs []error
	for _, s := range sections {
		re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(s) + `\s*$`)
		if !re.MatchString(content) {
			errs = append(errs, fmt.Errorf("README.md: %w section %q", ErrMissing, s))
		}
	}
	return errors.Join(errs...)
}

// CheckEnvExample verifies that env.example documents every variable.
func CheckEnvExample(root string, vars ...string) error {
	content, err := read(root, "env.example")
	if err != nil {
		return err
	}
	var errs []error
	for _, v := range vars {
		if !strings.Contains(content, v+"=") {
			errs = append(errs, fmt.Errorf("env.example: %w variable %s", ErrMissing, v))
		}
	}
	return errors.Join(errs...)
}

// CheckGeneratorConfig verifies the generator config and that its package
// description names Hyblock.
func CheckGeneratorConfig(root, name string) error {
	cfg, err := generator.LoadPackageConfig(filepath.Join(root, name))
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(cfg.PackageDescription), "hyblock") {
		return fmt.Errorf("%s: packageDescription does not mention hyblock", name)
	}
	if cfg.GenerateSourceCodeOnly {
		return fmt.Errorf("%s: generateSourceCodeOnly must be false", name)
	}
	return nil
}

// Verify runs every check against root and joins the problems found.
func Verify(root string) error {
	return errors.Join(
		CheckMakefile(root, MakefileTargets...),
		CheckGitignore(root, GitignoreEntries...),
		CheckReadme(root, ReadmeSections...),
		CheckEnvExample(root, EnvVars...),
		CheckGeneratorConfig(root, "openapi-generator-config.json"),
	)
}

func read(root, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return string(data), nil
}
