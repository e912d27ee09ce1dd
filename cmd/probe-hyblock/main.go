// Command probe-hyblock is a CLI tool for exploring single Hyblock API endpoints.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/johan/hyblock-capital-sdk/internal/analysis"
	"github.com/johan/hyblock-capital-sdk/internal/config"
	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
	"github.com/johan/hyblock-capital-sdk/internal/report"
)

var endpoints = []string{"catalog", "levels", "cumulative", "anchored-count", "anchored-size", "historical", "heatmap"}

func main() {
	endpoint := flag.String("endpoint", "", "Endpoint: "+strings.Join(endpoints, ", "))
	coin := flag.String("coin", "BTC", "Coin")
	exchange := flag.String("exchange", "binance", "Exchange")
	timeframe := flag.String("timeframe", "1h", "Timeframe")
	level := flag.String("level", "long", "Side for anchored endpoints: long or short")
	anchor := flag.String("anchor", "1d", "Anchor for anchored endpoints")
	limit := flag.Int("limit", 10, "Records to request")
	since := flag.Duration("since", 0, "Only show levels and historical periods newer than this")
	watch := flag.Bool("watch", false, "Continuously poll for updates")
	interval := flag.Duration("interval", 30*time.Second, "Poll interval (with --watch)")
	output := flag.String("output", "table", "Output format: table or json")
	timeout := flag.Duration("timeout", 30*time.Second, "Request timeout")

	flag.Parse()

	if !known(*endpoint) {
		fmt.Println("Usage: probe-hyblock --endpoint <name> [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  probe-hyblock --endpoint catalog")
		fmt.Println("  probe-hyblock --endpoint levels --coin ETH --timeframe 4h")
		fmt.Println("  probe-hyblock --endpoint anchored-count --level short --watch --interval 1m")
		os.Exit(1)
	}

	creds, err := config.LoadCredentials(".env")
	if err == nil {
		err = creds.Require()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client, err := hyblock.NewClient(hyblock.Config{
		BaseURL:    creds.APIURL,
		APIKey:     creds.APIKey,
		HTTPClient: &http.Client{Timeout: *timeout},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	q := hyblock.Query{
		Coin:      *coin,
		Timeframe: *timeframe,
		Exchange:  *exchange,
		Limit:     *limit,
		Anchor:    *anchor,
	}
	if strings.HasPrefix(*endpoint, "anchored") {
		q.Level = hyblock.Side(*level)
	} else {
		q.Anchor = ""
	}

	if !*watch {
		if err := probe(client, *endpoint, q, *since, *output, *timeout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Watching %s for %s... (Ctrl+C to stop)\n\n", *endpoint, *coin)

	for {
		fmt.Printf("\n[%s]\n", time.Now().Format("15:04:05"))
		if err := probe(client, *endpoint, q, *since, *output, *timeout); err != nil {
			fmt.Fprintf(os.Stderr, "[%s] Error: %v\n", time.Now().Format("15:04:05"), err)
		}
		<-ticker.C
	}
}

func known(endpoint string) bool {
	for _, e := range endpoints {
		if e == endpoint {
			return true
		}
	}
	return false
}

func probe(client *hyblock.Client, endpoint string, q hyblock.Query, since time.Duration, format string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		data interface{}
		err  error
	)
	start, end := time.Now().Add(-since).Unix(), time.Now().Unix()
	switch endpoint {
	case "catalog":
		data, err = client.Catalog.Get(ctx)
	case "levels":
		var levels []hyblock.LiquidationLevel
		levels, err = client.Liquidity.LiquidationLevels(ctx, q)
		if since > 0 {
			levels = analysis.FilterWindow(levels, start, end)
		}
		data = levels
	case "cumulative":
		data, err = client.Liquidity.CumulativeLiqLevel(ctx, q)
	case "anchored-count":
		data, err = client.Liquidity.AnchoredLiqLevelsCount(ctx, q)
	case "anchored-size":
		data, err = client.Liquidity.AnchoredLiqLevelsSize(ctx, q)
	case "historical":
		var events []hyblock.Liquidation
		events, err = client.Liquidity.Liquidation(ctx, q)
		if since > 0 {
			events = analysis.FilterLiquidationsWindow(events, start, end)
		}
		data = events
	case "heatmap":
		data, err = client.Liquidity.LiquidationHeatmap(ctx, q)
	}
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	printTable(data)
	return nil
}

func printTable(data interface{}) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	switch v := data.(type) {
	case hyblock.Catalog:
		fmt.Fprintln(w, "EXCHANGE\tCOINS")
		for _, name := range v.Exchanges() {
			fmt.Fprintf(w, "%s\t%d\n", name, len(v[name]))
		}
	case []hyblock.LiquidationLevel:
		fmt.Fprintln(w, "TIME\tSIDE\tPRICE\tSIZE\tLEVERAGE\tRISK")
		for _, l := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", l.Time().Format(time.RFC3339), l.Side,
				l.Price.String(), report.USD(l.Size), l.Leverage, analysis.Categorize(l.Leverage))
		}
	case []hyblock.CumulativeLiqLevel:
		fmt.Fprintln(w, "TIME\tLONG SIZE\tSHORT SIZE\tLONG #\tSHORT #")
		for _, c := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", unix(c.Timestamp), report.USD(c.TotalLongLiquidationSize),
				report.USD(c.TotalShortLiquidationSize), c.TotalLongLiquidationCount, c.TotalShortLiquidationCount)
		}
	case []hyblock.AnchoredLiqLevelsCount:
		fmt.Fprintln(w, "OPEN DATE\tCOUNT")
		for _, c := range v {
			fmt.Fprintf(w, "%s\t%d\n", unix(c.OpenDate), c.TotalCount)
		}
	case []hyblock.AnchoredLiqLevelsSize:
		fmt.Fprintln(w, "OPEN DATE\tSIZE")
		for _, s := range v {
			fmt.Fprintf(w, "%s\t%s\n", unix(s.OpenDate), report.USD(s.TotalSize))
		}
	case []hyblock.Liquidation:
		fmt.Fprintln(w, "OPEN DATE\tLONG\tSHORT\tL/S")
		for _, e := range v {
			ratio := "n/a"
			if r, ok := analysis.LongShortRatio(e); ok {
				ratio = r.StringFixed(2)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", unix(e.OpenDate), report.USD(e.LongLiquidation), report.USD(e.ShortLiquidation), ratio)
		}
	case []hyblock.LiquidationHeatmap:
		fmt.Fprintln(w, "TIME\tSIDE\tFROM\tTO\tSIZE")
		for _, b := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", unix(b.Timestamp), b.Side,
				b.StartingPrice.String(), b.EndingPrice.String(), report.USD(b.Size))
		}
	}
}

func unix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
