package hyblock

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidLeverage is returned when a leverage value is not a positive "<n>x" multiple.
	ErrInvalidLeverage = errors.New("invalid leverage")

	// ErrUnexpectedSide is returned for a side other than long or short.
	ErrUnexpectedSide = errors.New("unexpected side")
)

// Leverage is a position leverage multiple. The API encodes it as "10x".
// The zero value means the record carried no leverage.
type Leverage int

// ParseLeverage parses "10x" (or "10") into a Leverage. At most one trailing
// x or X is accepted and the number must be unsigned decimal digits.
func ParseLeverage(s string) (Leverage, error) {
	v := strings.TrimSpace(s)
	if strings.HasSuffix(v, "x") || strings.HasSuffix(v, "X") {
		v = v[:len(v)-1]
	}
	if v == "" || strings.TrimLeft(v, "0123456789") != "" {
		return 0, fmt.Errorf("%w %q: not an unsigned integer multiple", ErrInvalidLeverage, s)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidLeverage, s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w %q: must be positive", ErrInvalidLeverage, s)
	}
	return Leverage(n), nil
}

// Known reports whether the record carried a leverage value.
func (l Leverage) Known() bool {
	return l > 0
}

// String returns the wire form, e.g. "25x".
// A missing leverage prints as "unknown".
func (l Leverage) String() string {
	if !l.Known() {
		return "unknown"
	}
	return strconv.Itoa(int(l)) + "x"
}

// UnmarshalJSON accepts "25x", "25" or 25. null leaves the value unknown.
func (l *Leverage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = 0
		return nil
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	v, err := ParseLeverage(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// MarshalJSON writes the wire form.
func (l Leverage) MarshalJSON() ([]byte, error) {
	if l == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(l.String())
}

// Side is the position direction of a liquidation pool.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Valid reports whether s is long or short.
func (s Side) Valid() bool {
	return s == SideLong || s == SideShort
}

// ParseSide validates a side string.
func ParseSide(v string) (Side, error) {
	s := Side(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnexpectedSide, v)
	}
	return s, nil
}

// UnmarshalJSON rejects anything but long or short.
func (s *Side) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	side, err := ParseSide(v)
	if err != nil {
		return err
	}
	*s = side
	return nil
}
