// Package hyblock provides a thin client and data model for the Hyblock
// Capital REST API.
package hyblock

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// LiquidationLevel is a single forecast liquidation pool.
type LiquidationLevel struct {
	Timestamp    int64           `json:"timestamp"`
	CreationDate int64           `json:"creationDate"`
	Price        decimal.Decimal `json:"price"`
	Size         decimal.Decimal `json:"size"`
	Leverage     Leverage        `json:"leverage"`
	Side         Side            `json:"side"`
	OpenDuration int64           `json:"openDuration"`
}

// Duration returns how long the positions behind the pool have been open.
func (l LiquidationLevel) Duration() time.Duration {
	return time.Duration(l.OpenDuration) * time.Second
}

// Time returns the level timestamp.
func (l LiquidationLevel) Time() time.Time {
	return time.Unix(l.Timestamp, 0).UTC()
}

// CumulativeLiqLevel holds aggregated liquidation totals for one timestamp bucket.
type CumulativeLiqLevel struct {
	Timestamp                  int64           `json:"timestamp"`
	TotalLongLiquidationSize   decimal.Decimal `json:"totalLongLiquidationSize"`
	TotalShortLiquidationSize  decimal.Decimal `json:"totalShortLiquidationSize"`
	TotalLongLiquidationCount  int             `json:"totalLongLiquidationCount"`
	TotalShortLiquidationCount int             `json:"totalShortLiquidationCount"`
}

// AnchoredLiqLevelsCount is the number of liquidation levels anchored to a
// date. The side is a request parameter, not part of the record.
type AnchoredLiqLevelsCount struct {
	OpenDate   int64 `json:"openDate"`
	TotalCount int   `json:"totalCount"`
}

// AnchoredLiqLevelsSize is the USD size of liquidation levels anchored to a date.
type AnchoredLiqLevelsSize struct {
	OpenDate  int64           `json:"openDate"`
	TotalSize decimal.Decimal `json:"totalSize"`
}

// Liquidation is an aggregated historical liquidation period.
type Liquidation struct {
	OpenDate         int64           `json:"openDate"`
	LongLiquidation  decimal.Decimal `json:"longLiquidation"`
	ShortLiquidation decimal.Decimal `json:"shortLiquidation"`
}

// LiquidationHeatmap is one price-range bucket of the liquidation heatmap.
type LiquidationHeatmap struct {
	Timestamp     int64           `json:"timestamp"`
	Size          decimal.Decimal `json:"size"`
	StartingPrice decimal.Decimal `json:"startingPrice"`
	EndingPrice   decimal.Decimal `json:"endingPrice"`
	Side          Side            `json:"side"`
}

// Catalog maps exchange names to the coins available on them.
type Catalog map[string][]string

// Has reports whether coin is listed on exchange.
func (c Catalog) Has(exchange, coin string) bool {
	for _, v := range c[exchange] {
		if v == coin {
			return true
		}
	}
	return false
}

// Exchanges returns the exchange names in sorted order.
func (c Catalog) Exchanges() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExchangesListing returns the sorted exchanges listing coin.
func (c Catalog) ExchangesListing(coin string) []string {
	var out []string
	for _, name := range c.Exchanges() {
		if c.Has(name, coin) {
			out = append(out, name)
		}
	}
	return out
}
