package analysis

import (
	"fmt"

	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
)

// PartitionBySide splits levels into long and short pools, preserving order.
// Any other side is reported as hyblock.ErrUnexpectedSide.
func PartitionBySide(levels []hyblock.LiquidationLevel) (long, short []hyblock.LiquidationLevel, err error) {
	for i, l := range levels {
		switch l.Side {
		case hyblock.SideLong:
			long = append(long, l)
		case hyblock.SideShort:
			short = append(short, l)
		default:
			return nil, nil, fmt.Errorf("level %d: %w: %q", i, hyblock.ErrUnexpectedSide, l.Side)
		}
	}
	return long, short, nil
}

// CountSides returns the number of long and short pools. Other sides are not counted.
func CountSides(levels []hyblock.LiquidationLevel) (long, short int) {
	for _, l := range levels {
		switch l.Side {
		case hyblock.SideLong:
			long++
		case hyblock.SideShort:
			short++
		}
	}
	return long, short
}

// FilterWindow keeps levels with start <= Timestamp <= end, preserving order.
func FilterWindow(levels []hyblock.LiquidationLevel, start, end int64) []hyblock.LiquidationLevel {
	out := make([]hyblock.LiquidationLevel, 0, len(levels))
	for _, l := range levels {
		if l.Timestamp >= start && l.Timestamp <= end {
			out = append(out, l)
		}
	}
	return out
}

// FilterLiquidationsWindow keeps events with start <= OpenDate <= end.
func FilterLiquidationsWindow(events []hyblock.Liquidation, start, end int64) []hyblock.Liquidation {
	out := make([]hyblock.Liquidation, 0, len(events))
	for _, e := range events {
		if e.OpenDate >= start && e.OpenDate <= end {
			out = append(out, e)
		}
	}
	return out
}
