// Package specfetch downloads the Hyblock OpenAPI document.
package specfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// DefaultURL is where Hyblock publishes its OpenAPI document.
const DefaultURL = "https://api.hyblock.capital/swagger.json"

const maxDocumentSize = 64 << 20

// ErrInvalidJSON is returned when the downloaded body is not a JSON object.
var ErrInvalidJSON = errors.New("specification is not valid JSON")

// StatusError is a non-2xx response from the specification host.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("downloading %s: unexpected status: %d", e.URL, e.StatusCode)
}

// Document describes a downloaded specification.
type Document struct {
	Path    string
	Version string // openapi or swagger version
	Title   string
	Paths   int
	Bytes   int
}

// Fetcher downloads specifications over HTTP.
type Fetcher struct {
	httpClient *http.Client
}

// New creates a Fetcher. A nil client uses http.DefaultClient.
func New(httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Fetcher{httpClient: httpClient}
}

// Fetch downloads the document at url, checks it is JSON and writes it to dest.
// Nothing is written when validation fails.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	doc, err := Inspect(body)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory: %w", err)
		}
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return nil, fmt.Errorf("writing specification: %w", err)
	}

	doc.Path = dest
	return doc, nil
}

// Inspect parses a specification body.
func Inspect(body []byte) (*Document, error) {
	var raw struct {
		OpenAPI string `json:"openapi"`
		Swagger string `json:"swagger"`
		Info    struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	version := raw.OpenAPI
	if version == "" {
		version = raw.Swagger
	}
	return &Document{
		Version: version,
		Title:   raw.Info.Title,
		Paths:   len(raw.Paths),
		Bytes:   len(body),
	}, nil
}
