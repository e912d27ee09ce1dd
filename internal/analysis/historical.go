package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
)

// HistoricalSummary aggregates historical liquidation periods.
type HistoricalSummary struct {
	Periods        int
	TotalLong      decimal.Decimal
	TotalShort     decimal.Decimal
	LongDominant   int
	ShortDominant  int
	BalancedPeriod int
}

// Dominance returns the side with the larger total, or "" when the totals tie.
func (s HistoricalSummary) Dominance() hyblock.Side {
	switch s.TotalLong.Cmp(s.TotalShort) {
	case 1:
		return hyblock.SideLong
	case -1:
		return hyblock.SideShort
	}
	return ""
}

// SummarizeHistorical totals long and short liquidations and counts the
// periods each side dominated. Ties count as balanced.
func SummarizeHistorical(events []hyblock.Liquidation) HistoricalSummary {
	s := HistoricalSummary{Periods: len(events)}
	for _, e := range events {
		s.TotalLong = s.TotalLong.Add(e.LongLiquidation)
		s.TotalShort = s.TotalShort.Add(e.ShortLiquidation)
		switch e.LongLiquidation.Cmp(e.ShortLiquidation) {
		case 1:
			s.LongDominant++
		case -1:
			s.ShortDominant++
		default:
			s.BalancedPeriod++
		}
	}
	return s
}

// LongShortRatio returns long/short for one period; ok is false when short is zero.
func LongShortRatio(e hyblock.Liquidation) (decimal.Decimal, bool) {
	if e.ShortLiquidation.IsZero() {
		return decimal.Zero, false
	}
	return e.LongLiquidation.Div(e.ShortLiquidation), true
}

// CumulativeSummary totals cumulative level buckets.
type CumulativeSummary struct {
	Buckets    int
	LongSize   decimal.Decimal
	ShortSize  decimal.Decimal
	LongCount  int
	ShortCount int
}

// SummarizeCumulative totals cumulative liquidation buckets.
func SummarizeCumulative(levels []hyblock.CumulativeLiqLevel) CumulativeSummary {
	s := CumulativeSummary{Buckets: len(levels)}
	for _, l := range levels {
		s.LongSize = s.LongSize.Add(l.TotalLongLiquidationSize)
		s.ShortSize = s.ShortSize.Add(l.TotalShortLiquidationSize)
		s.LongCount += l.TotalLongLiquidationCount
		s.ShortCount += l.TotalShortLiquidationCount
	}
	return s
}

// HeatmapSummary totals heatmap buckets per side and keeps the densest bucket.
type HeatmapSummary struct {
	Buckets   int
	LongSize  decimal.Decimal
	ShortSize decimal.Decimal

	// Densest is valid only when Buckets > 0.
	Densest hyblock.LiquidationHeatmap
}

// SummarizeHeatmap totals heatmap buckets. The first of equally dense buckets wins.
func SummarizeHeatmap(buckets []hyblock.LiquidationHeatmap) HeatmapSummary {
	s := HeatmapSummary{Buckets: len(buckets)}
	for i, b := range buckets {
		switch b.Side {
		case hyblock.SideLong:
			s.LongSize = s.LongSize.Add(b.Size)
		case hyblock.SideShort:
			s.ShortSize = s.ShortSize.Add(b.Size)
		}
		if i == 0 || b.Size.GreaterThan(s.Densest.Size) {
			s.Densest = b
		}
	}
	return s
}
