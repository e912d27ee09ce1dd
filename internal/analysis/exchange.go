package analysis

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
)

// LevelSource fetches liquidation levels. *hyblock.LiquidityAPI satisfies it.
type LevelSource interface {
	LiquidationLevels(ctx context.Context, q hyblock.Query) ([]hyblock.LiquidationLevel, error)
}

// ExchangeSummary describes the pools returned for one exchange.
type ExchangeSummary struct {
	Exchange   string
	TotalPools int
	TotalSize  decimal.Decimal

	// AvgLeverage is meaningful only when HasLeverage is true.
	AvgLeverage float64
	HasLeverage bool

	// UnknownLeverage counts pools without a leverage value.
	UnknownLeverage int

	LongPools  int
	ShortPools int
}

// SummarizeExchange computes the per-exchange comparison figures.
func SummarizeExchange(exchange string, levels []hyblock.LiquidationLevel) ExchangeSummary {
	avg, ok := AverageLeverage(levels)
	long, short := CountSides(levels)
	return ExchangeSummary{
		Exchange:    exchange,
		TotalPools:  len(levels),
		TotalSize:   TotalSize(levels),
		AvgLeverage: avg,
		HasLeverage: ok,
		LongPools:   long,
		ShortPools:  short,

		UnknownLeverage: UnknownLeverage(levels),
	}
}

// Comparison is the result of CompareExchanges.
type Comparison struct {
	Summaries []ExchangeSummary

	// Largest is the exchange with the greatest total size; empty when no
	// exchange returned pools.
	Largest string
}

// Get returns the summary for exchange.
func (c Comparison) Get(exchange string) (ExchangeSummary, bool) {
	for _, s := range c.Summaries {
		if s.Exchange == exchange {
			return s, true
		}
	}
	return ExchangeSummary{}, false
}

// CompareExchanges runs the same levels query once per exchange selector.
// It stops at the first failing fetch.
func CompareExchanges(ctx context.Context, src LevelSource, q hyblock.Query, exchanges ...string) (Comparison, error) {
	var cmp Comparison
	best := decimal.Zero
	for _, ex := range exchanges {
		levels, err := src.LiquidationLevels(ctx, q.WithExchange(ex))
		if err != nil {
			return Comparison{}, fmt.Errorf("fetching %s levels: %w", ex, err)
		}
		s := SummarizeExchange(ex, levels)
		cmp.Summaries = append(cmp.Summaries, s)
		if s.TotalPools > 0 && (cmp.Largest == "" || s.TotalSize.GreaterThan(best)) {
			cmp.Largest = ex
			best = s.TotalSize
		}
	}
	return cmp, nil
}
