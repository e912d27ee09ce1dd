// Package docs stamps markdown pages for the generated SDK.
package docs

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/johan/hyblock-capital-sdk/internal/logger"
)

// API is one generated API service.
type API struct {
	Name  string
	Title string
}

// APIs lists the Hyblock API modules a page is written for.
var APIs = []API{
	{"catalog", "Catalog API"},
	{"funding_rate", "Funding Rate API"},
	{"liquidity", "Liquidity API"},
	{"longs_and_shorts", "Longs and Shorts API"},
	{"open_interest", "Open Interest API"},
	{"options", "Options API"},
	{"orderbook", "Orderbook API"},
	{"orderflow", "Orderflow API"},
	{"profile_tool", "Profile Tool API"},
	{"sentiment", "Sentiment API"},
}

// SourceFile is the generated file that must exist for a page to be written.
func (a API) SourceFile() string {
	return "api_" + a.Name + ".go"
}

// Stamper writes the documentation pages.
type Stamper struct {
	SDKDir     string
	OutputDir  string
	ImportPath string
	BaseURL    string
	DryRun     bool
	Log        *logger.Logger
}

// Report lists what Generate wrote (or would write in dry-run).
type Report struct {
	Written []string
	Skipped []string // API names without a generated source file
}

type apiPage struct {
	API          API
	Package      string
	ImportPath   string
	BaseURL      string
	APIKeyHeader string
	SourceFile   string
}

type status struct {
	Code int
	Text string
}

var errorStatuses = []status{
	{400, "Bad Request: malformed request"},
	{401, "Unauthorized: invalid credentials"},
	{403, "Forbidden: no permission"},
	{404, "Not Found: resource not found"},
	{429, "Too Many Requests: rate limit exceeded"},
	{500, "Internal Server Error: server failure"},
}

// Generate writes one page per available API plus models.md, errors.md and
// nav.yml. Existing files are overwritten.
func (s *Stamper) Generate() (*Report, error) {
	if s.Log == nil {
		s.Log = logger.Nop()
	}
	pkg := path.Base(s.ImportPath)
	report := &Report{}

	var available []API
	for _, api := range APIs {
		if _, err := os.Stat(filepath.Join(s.SDKDir, api.SourceFile())); err != nil {
			report.Skipped = append(report.Skipped, api.Name)
			s.Log.Debugw("No generated source, skipping", "api", api.Name)
			continue
		}
		available = append(available, api)

		page := apiPage{
			API:          api,
			Package:      pkg,
			ImportPath:   s.ImportPath,
			BaseURL:      s.BaseURL,
			APIKeyHeader: "x-api-key",
			SourceFile:   api.SourceFile(),
		}
		if err := s.write(api.Name+".md", apiPageTemplate, page, report); err != nil {
			return report, fmt.Errorf("writing %s page: %w", api.Name, err)
		}
	}

	models, err := s.modelFiles()
	if err != nil {
		return report, err
	}
	if err := s.write("models.md", modelsPageTemplate, map[string]interface{}{
		"ImportPath": s.ImportPath,
		"ModelFiles": models,
	}, report); err != nil {
		return report, fmt.Errorf("writing models page: %w", err)
	}

	if err := s.write("errors.md", errorsPageTemplate, map[string]interface{}{
		"Package":  pkg,
		"Statuses": errorStatuses,
	}, report); err != nil {
		return report, fmt.Errorf("writing errors page: %w", err)
	}

	nav, err := Nav(available)
	if err != nil {
		return report, err
	}
	if err := s.writeBytes("nav.yml", nav, report); err != nil {
		return report, fmt.Errorf("writing nav: %w", err)
	}
	return report, nil
}

func (s *Stamper) modelFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.SDKDir, "model_*.go"))
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = filepath.Base(m)
	}
	sort.Strings(names)
	return names, nil
}

// write renders a template into the output directory.
func (s *Stamper) write(name, tmpl string, data interface{}, report *Report) error {
	t, err := template.New(name).Funcs(templateFuncs()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return s.writeBytes(name, buf.Bytes(), report)
}

func (s *Stamper) writeBytes(name string, data []byte, report *Report) error {
	target := filepath.Join(s.OutputDir, name)
	report.Written = append(report.Written, target)

	if s.DryRun {
		s.Log.Infow("Would create", "file", target)
		return nil
	}
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	s.Log.Infow("Generated", "file", target)
	return nil
}

// Nav renders the mkdocs navigation for the given APIs.
func Nav(apis []API) ([]byte, error) {
	apiEntries := make([]map[string]string, 0, len(apis))
	for _, a := range apis {
		apiEntries = append(apiEntries, map[string]string{a.Title: a.Name + ".md"})
	}
	nav := map[string]interface{}{
		"nav": []interface{}{
			map[string]string{"Home": "index.md"},
			map[string]interface{}{"APIs": apiEntries},
			map[string]string{"Models": "models.md"},
			map[string]string{"Errors": "errors.md"},
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(nav); err != nil {
		return nil, fmt.Errorf("encoding nav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding nav: %w", err)
	}
	return buf.Bytes(), nil
}
