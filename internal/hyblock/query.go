package hyblock

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrInvalidQuery is returned for query parameters rejected before sending.
var ErrInvalidQuery = errors.New("invalid query")

// Query holds the keyword parameters shared by the liquidity endpoints.
// Zero values are omitted from the request.
type Query struct {
	Coin      string
	Timeframe string
	Exchange  string
	Limit     int
	Sort      string // asc or desc
	Bucket    string // comma separated size buckets, e.g. "4,5,6"
	StartTime int64  // unix seconds
	EndTime   int64  // unix seconds
	Level     Side   // anchored endpoints only
	Anchor    string // anchored endpoints only, e.g. "1d"
}

// WithExchange returns a copy of q targeting exchange.
func (q Query) WithExchange(exchange string) Query {
	q.Exchange = exchange
	return q
}

// WithLevel returns a copy of q for the given side.
func (q Query) WithLevel(level Side) Query {
	q.Level = level
	return q
}

// Validate checks parameters with a closed set of values.
func (q Query) Validate() error {
	if q.Coin == "" {
		return fmt.Errorf("%w: coin required", ErrInvalidQuery)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidQuery)
	}
	switch q.Sort {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("%w: sort must be asc or desc, got %q", ErrInvalidQuery, q.Sort)
	}
	if q.Level != "" && !q.Level.Valid() {
		return fmt.Errorf("%w: level must be long or short, got %q", ErrInvalidQuery, q.Level)
	}
	if q.StartTime > 0 && q.EndTime > 0 && q.StartTime > q.EndTime {
		return fmt.Errorf("%w: startTime after endTime", ErrInvalidQuery)
	}
	return nil
}

// Values encodes the query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Coin != "" {
		v.Set("coin", q.Coin)
	}
	if q.Timeframe != "" {
		v.Set("timeframe", q.Timeframe)
	}
	if q.Exchange != "" {
		v.Set("exchange", q.Exchange)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Bucket != "" {
		v.Set("bucket", q.Bucket)
	}
	if q.StartTime > 0 {
		v.Set("startTime", strconv.FormatInt(q.StartTime, 10))
	}
	if q.EndTime > 0 {
		v.Set("endTime", strconv.FormatInt(q.EndTime, 10))
	}
	if q.Level != "" {
		v.Set("level", string(q.Level))
	}
	if q.Anchor != "" {
		v.Set("anchor", q.Anchor)
	}
	return v
}
