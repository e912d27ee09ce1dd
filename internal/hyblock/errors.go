package hyblock

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Sentinels matched by errors.Is against *APIError and *RateLimitError.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
)

// ErrorKind classifies an API failure.
type ErrorKind string

const (
	KindBadRequest   ErrorKind = "bad_request"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindServer       ErrorKind = "server"
	KindUnexpected   ErrorKind = "unexpected"
)

// APIError is a non-2xx response other than 429.
type APIError struct {
	Status    int
	Reason    string
	RequestID string
}

// Kind classifies the error by status code.
func (e *APIError) Kind() ErrorKind {
	switch {
	case e.Status == http.StatusBadRequest:
		return KindBadRequest
	case e.Status == http.StatusUnauthorized:
		return KindUnauthorized
	case e.Status == http.StatusForbidden:
		return KindForbidden
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status >= 500:
		return KindServer
	default:
		return KindUnexpected
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("hyblock api: %d %s", e.Status, e.Reason)
}

// Is matches the sentinel for the error's kind.
func (e *APIError) Is(target error) bool {
	switch e.Kind() {
	case KindBadRequest:
		return target == ErrBadRequest
	case KindUnauthorized:
		return target == ErrUnauthorized
	case KindForbidden:
		return target == ErrForbidden
	case KindNotFound:
		return target == ErrNotFound
	case KindServer:
		return target == ErrServer
	}
	return false
}

// StatusCode returns the HTTP status.
func (e *APIError) StatusCode() int { return e.Status }

// RateLimitError is a 429 response.
type RateLimitError struct {
	// Zero when the server sent no usable Retry-After header.
	RetryAfter time.Duration
	RequestID  string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("hyblock api: rate limited, retry after %s", e.RetryAfter)
	}
	return "hyblock api: rate limited"
}

// Is matches ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// StatusCode returns 429.
func (e *RateLimitError) StatusCode() int { return http.StatusTooManyRequests }

const maxReasonLen = 200

func decodeError(resp *http.Response, body []byte, requestID string, now time.Time) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), now),
			RequestID:  requestID,
		}
	}
	return &APIError{
		Status:    resp.StatusCode,
		Reason:    errorReason(resp.StatusCode, body),
		RequestID: requestID,
	}
}

func errorReason(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" || text[0] == '{' {
		return http.StatusText(status)
	}
	if len(text) > maxReasonLen {
		text = text[:maxReasonLen] + "..."
	}
	return text
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
