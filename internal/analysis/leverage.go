// Package analysis turns liquidation records into grouped summaries.
//
// Every average is computed once after accumulation and reported together
// with an ok flag; an empty group yields ok=false instead of a division.
package analysis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
)

// LeverageGroup accumulates the pools sharing one leverage multiple.
type LeverageGroup struct {
	Leverage      hyblock.Leverage
	Count         int
	TotalSize     decimal.Decimal
	TotalDuration time.Duration
	LongPools     int
	ShortPools    int
}

// AvgDuration returns the mean open duration of the group.
func (g *LeverageGroup) AvgDuration() (time.Duration, bool) {
	if g.Count == 0 {
		return 0, false
	}
	return g.TotalDuration / time.Duration(g.Count), true
}

// AvgSize returns the mean pool size of the group.
func (g *LeverageGroup) AvgSize() (decimal.Decimal, bool) {
	if g.Count == 0 {
		return decimal.Zero, false
	}
	return g.TotalSize.Div(decimal.NewFromInt(int64(g.Count))), true
}

// LeverageBreakdown maps each leverage multiple to its group.
type LeverageBreakdown map[hyblock.Leverage]*LeverageGroup

// GroupByLeverage groups levels by leverage multiple. Levels without a
// leverage are left out; see UnknownLeverage.
func GroupByLeverage(levels []hyblock.LiquidationLevel) LeverageBreakdown {
	out := make(LeverageBreakdown)
	for _, l := range levels {
		if !l.Leverage.Known() {
			continue
		}
		g, ok := out[l.Leverage]
		if !ok {
			g = &LeverageGroup{Leverage: l.Leverage}
			out[l.Leverage] = g
		}
		g.Count++
		g.TotalSize = g.TotalSize.Add(l.Size)
		g.TotalDuration += l.Duration()
		switch l.Side {
		case hyblock.SideLong:
			g.LongPools++
		case hyblock.SideShort:
			g.ShortPools++
		}
	}
	return out
}

// Sorted returns the groups by ascending leverage.
func (b LeverageBreakdown) Sorted() []*LeverageGroup {
	groups := make([]*LeverageGroup, 0, len(b))
	for _, g := range b {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Leverage < groups[j].Leverage })
	return groups
}

// TotalSize sums the size of every group.
func (b LeverageBreakdown) TotalSize() decimal.Decimal {
	total := decimal.Zero
	for _, g := range b {
		total = total.Add(g.TotalSize)
	}
	return total
}

// AverageLeverage returns the arithmetic mean of the known leverage values.
// ok is false when no level carries a leverage.
func AverageLeverage(levels []hyblock.LiquidationLevel) (float64, bool) {
	var sum int64
	var n int
	for _, l := range levels {
		if !l.Leverage.Known() {
			continue
		}
		sum += int64(l.Leverage)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// UnknownLeverage counts the levels that carried no leverage value.
func UnknownLeverage(levels []hyblock.LiquidationLevel) int {
	var n int
	for _, l := range levels {
		if !l.Leverage.Known() {
			n++
		}
	}
	return n
}

// TotalSize sums the size of levels.
func TotalSize(levels []hyblock.LiquidationLevel) decimal.Decimal {
	total := decimal.Zero
	for _, l := range levels {
		total = total.Add(l.Size)
	}
	return total
}
