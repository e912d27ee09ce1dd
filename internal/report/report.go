// Package report renders survey and analysis results as text tables.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/johan/hyblock-capital-sdk/internal/analysis"
	"github.com/johan/hyblock-capital-sdk/internal/collector"
)

// USD formats an amount as "$1,234.56".
func USD(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	if f < 0 {
		return "-$" + humanize.CommafWithDigits(-f, 2)
	}
	return "$" + humanize.CommafWithDigits(f, 2)
}

// Duration formats an average duration, or "n/a" when absent.
func Duration(d time.Duration, ok bool) string {
	if !ok {
		return "n/a"
	}
	return d.Round(time.Minute).String()
}

// Survey writes a summary of one survey.
func Survey(w io.Writer, r *collector.Report) {
	o := r.Options
	fmt.Fprintf(w, "Survey %s on %s (%s) at %s\n\n", o.Coin, valueOr(o.Exchange, "all exchanges"), o.Timeframe,
		r.StartedAt.UTC().Format(time.RFC3339))

	if len(r.Catalog) > 0 {
		exchanges := r.Catalog.Exchanges()
		fmt.Fprintf(w, "Catalog: %s exchanges (%s)\n", humanize.Comma(int64(len(exchanges))), preview(exchanges, 5))
		fmt.Fprintf(w, "Listing %s: %s\n\n", o.Coin, preview(r.Catalog.ExchangesListing(o.Coin), 8))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CALL\tRECORDS\tSTATUS")
	counts := map[string]int{
		collector.CallCatalog:      len(r.Catalog),
		collector.CallCumulative:   len(r.Cumulative),
		collector.CallLongCount:    len(r.LongCount),
		collector.CallShortCount:   len(r.ShortCount),
		collector.CallAnchoredSize: len(r.Sizes),
		collector.CallLevels:       len(r.Levels),
		collector.CallHistorical:   len(r.Historical),
		collector.CallHeatmap:      len(r.Heatmap),
	}
	for _, call := range r.Succeeded {
		fmt.Fprintf(tw, "%s\t%d\tok\n", call, counts[call])
	}
	for _, f := range r.Failures {
		fmt.Fprintf(tw, "%s\t-\tfailed: %v\n", f.Call, f.Err)
	}
	tw.Flush()

	if len(r.Cumulative) > 0 {
		c := analysis.SummarizeCumulative(r.Cumulative)
		fmt.Fprintf(w, "\nCumulative: long %s (%d), short %s (%d) over %d buckets\n",
			USD(c.LongSize), c.LongCount, USD(c.ShortSize), c.ShortCount, c.Buckets)
	}
	if len(r.Historical) > 0 {
		fmt.Fprintln(w)
		Historical(w, analysis.SummarizeHistorical(r.Historical))
	}
	if len(r.Heatmap) > 0 {
		h := analysis.SummarizeHeatmap(r.Heatmap)
		fmt.Fprintf(w, "\nHeatmap: long %s, short %s; densest %s at %s-%s (%s)\n",
			USD(h.LongSize), USD(h.ShortSize), USD(h.Densest.Size),
			h.Densest.StartingPrice.StringFixed(2), h.Densest.EndingPrice.StringFixed(2), h.Densest.Side)
	}
}

// Leverage writes the per-leverage breakdown.
func Leverage(w io.Writer, b analysis.LeverageBreakdown) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "LEVERAGE\tPOOLS\tLONG\tSHORT\tTOTAL SIZE\tAVG SIZE\tAVG OPEN\t")
	for _, g := range b.Sorted() {
		avg, _ := g.AvgSize()
		d, ok := g.AvgDuration()
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\t%s\t\n",
			g.Leverage, g.Count, g.LongPools, g.ShortPools, USD(g.TotalSize), USD(avg), Duration(d, ok))
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %s\n", USD(b.TotalSize()))
}

// Risk writes the risk profile.
func Risk(w io.Writer, b analysis.RiskBreakdown) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RISK\tPOOLS\tTOTAL SIZE\tAVG OPEN")
	for _, g := range b {
		d, ok := g.AvgDuration()
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", g.Category, g.Count, USD(g.TotalSize), Duration(d, ok))
	}
	tw.Flush()
}

// Comparison writes the cross-exchange comparison.
func Comparison(w io.Writer, c analysis.Comparison) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EXCHANGE\tPOOLS\tTOTAL SIZE\tAVG LEVERAGE\tLONG\tSHORT")
	for _, s := range c.Summaries {
		avg := "n/a"
		if s.HasLeverage {
			avg = fmt.Sprintf("%.1fx", s.AvgLeverage)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%d\n", s.Exchange, s.TotalPools, USD(s.TotalSize), avg, s.LongPools, s.ShortPools)
	}
	tw.Flush()
	if c.Largest != "" {
		fmt.Fprintf(w, "Largest pools: %s\n", c.Largest)
	}
}

// Historical writes the historical liquidation summary.
func Historical(w io.Writer, s analysis.HistoricalSummary) {
	fmt.Fprintf(w, "Historical: %d periods, long %s, short %s\n", s.Periods, USD(s.TotalLong), USD(s.TotalShort))
	fmt.Fprintf(w, "Dominant periods: long %d, short %d, balanced %d; overall %s\n",
		s.LongDominant, s.ShortDominant, s.BalancedPeriod, valueOr(string(s.Dominance()), "balanced"))
}

func preview(items []string, n int) string {
	if len(items) == 0 {
		return "none"
	}
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:n], ", ") + fmt.Sprintf(", ... (+%d)", len(items)-n)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
