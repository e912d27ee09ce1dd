package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
)

// RiskCategory buckets leverage multiples by liquidation risk.
type RiskCategory string

const (
	RiskLow     RiskCategory = "low"
	RiskMedium  RiskCategory = "medium"
	RiskHigh    RiskCategory = "high"
	RiskExtreme RiskCategory = "extreme"

	// RiskUnknown is returned for a level without leverage. It is not part
	// of RiskCategories.
	RiskUnknown RiskCategory = "unknown"
)

// RiskCategories lists the categories in policy order.
var RiskCategories = []RiskCategory{RiskLow, RiskMedium, RiskHigh, RiskExtreme}

// Upper bounds are inclusive.
const (
	lowMaxLeverage    = 5
	mediumMaxLeverage = 15
	highMaxLeverage   = 30
)

// Categorize maps a leverage multiple to its risk category.
func Categorize(l hyblock.Leverage) RiskCategory {
	switch {
	case !l.Known():
		return RiskUnknown
	case l <= lowMaxLeverage:
		return RiskLow
	case l <= mediumMaxLeverage:
		return RiskMedium
	case l <= highMaxLeverage:
		return RiskHigh
	default:
		return RiskExtreme
	}
}

// CategorizeString parses a wire leverage such as "25x" and categorizes it.
func CategorizeString(s string) (RiskCategory, error) {
	l, err := hyblock.ParseLeverage(s)
	if err != nil {
		return "", err
	}
	return Categorize(l), nil
}

// RiskGroup accumulates the pools of one risk category.
type RiskGroup struct {
	Category      RiskCategory
	Count         int
	TotalSize     decimal.Decimal
	TotalDuration time.Duration
}

// AvgDuration returns the mean open duration of the category.
func (g *RiskGroup) AvgDuration() (time.Duration, bool) {
	if g.Count == 0 {
		return 0, false
	}
	return g.TotalDuration / time.Duration(g.Count), true
}

// RiskBreakdown holds one group per category, in policy order.
type RiskBreakdown []*RiskGroup

// Get returns the group for c.
func (b RiskBreakdown) Get(c RiskCategory) *RiskGroup {
	for _, g := range b {
		if g.Category == c {
			return g
		}
	}
	return nil
}

// Counts returns the pool count per category.
func (b RiskBreakdown) Counts() map[RiskCategory]int {
	out := make(map[RiskCategory]int, len(b))
	for _, g := range b {
		out[g.Category] = g.Count
	}
	return out
}

// RiskProfile groups levels by risk category. All four categories are present
// in the result, empty ones with a zero count. Levels without leverage are
// not counted.
func RiskProfile(levels []hyblock.LiquidationLevel) RiskBreakdown {
	out := make(RiskBreakdown, len(RiskCategories))
	index := make(map[RiskCategory]*RiskGroup, len(RiskCategories))
	for i, c := range RiskCategories {
		g := &RiskGroup{Category: c}
		out[i] = g
		index[c] = g
	}
	for _, l := range levels {
		g, ok := index[Categorize(l.Leverage)]
		if !ok {
			continue
		}
		g.Count++
		g.TotalSize = g.TotalSize.Add(l.Size)
		g.TotalDuration += l.Duration()
	}
	return out
}
