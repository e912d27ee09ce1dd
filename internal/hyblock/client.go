package hyblock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Hyblock API.
	DefaultBaseURL = "https://api1.dev.hyblockcapital.com/v1"

	// APIKeyHeader carries the API key on every request.
	APIKeyHeader = "x-api-key"

	// RequestIDHeader carries the per-request id.
	RequestIDHeader = "X-Request-Id"

	defaultUserAgent = "hyblock-capital-sdk-go/0.1"
	maxBodyBytes     = 32 << 20
)

// RequestObserver receives one callback per completed HTTP exchange.
// status is the HTTP status code as text, or "error" for transport failures.
type RequestObserver interface {
	ObserveRequest(endpoint, status string, elapsed time.Duration)
}

// Config wires authentication, base URL and pacing for the client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	UserAgent  string

	// RequestsPerMinute paces outgoing requests. Zero disables pacing.
	RequestsPerMinute int

	Observer RequestObserver
}

// Client is an HTTP client for the Hyblock API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	limiter    *rate.Limiter
	observer   RequestObserver
	now        func() time.Time

	// Grouped endpoint clients.
	Catalog   *CatalogAPI
	Liquidity *LiquidityAPI
}

// NewClient validates cfg and returns a ready-to-use client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("hyblock: api key required")
	}
	if cfg.RequestsPerMinute < 0 {
		return nil, errors.New("hyblock: requests per minute must not be negative")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    normalized,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		userAgent:  ua,
		observer:   cfg.Observer,
		now:        time.Now,
	}
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.RequestsPerMinute / 10
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), burst)
	}
	c.Catalog = &CatalogAPI{client: c}
	c.Liquidity = &LiquidityAPI{client: c}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("hyblock: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("hyblock: base URL must be http or https: %q", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("hyblock: base URL missing host: %q", raw)
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

// get performs a GET on path and decodes the response payload into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(path, "error", start)
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	c.observe(path, fmt.Sprintf("%d", resp.StatusCode), start)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, body, requestID, c.now())
	}

	if err := decodePayload(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) observe(endpoint, status string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, status, c.now().Sub(start))
	}
}

// decodePayload decodes body into out, unwrapping a top-level {"data": ...}
// envelope when present.
func decodePayload(body []byte, out interface{}) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return errors.New("empty response body")
	}
	if body[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
			body = envelope.Data
		}
	}
	return json.Unmarshal(body, out)
}

// decodeList decodes a list endpoint. A single object is accepted as a
// one-element list.
func decodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var one T
		if err := json.Unmarshal(body, &one); err != nil {
			return nil, err
		}
		return []T{one}, nil
	}
	var list []T
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// listResult is a json.Unmarshaler that defers to decodeList.
type listResult[T any] struct {
	items []T
}

func (r *listResult[T]) UnmarshalJSON(data []byte) error {
	items, err := decodeList[T](data)
	if err != nil {
		return err
	}
	r.items = items
	return nil
}

func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var res listResult[T]
	if err := c.get(ctx, path, query, &res); err != nil {
		return nil, err
	}
	return res.items, nil
}
