// Command leverage-analysis groups liquidation levels by leverage and risk
// and compares exchanges.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/johan/hyblock-capital-sdk/internal/analysis"
	"github.com/johan/hyblock-capital-sdk/internal/app"
	"github.com/johan/hyblock-capital-sdk/internal/collector"
	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
	"github.com/johan/hyblock-capital-sdk/internal/logger"
	"github.com/johan/hyblock-capital-sdk/internal/report"
	"github.com/johan/hyblock-capital-sdk/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	coin := flag.String("coin", "", "Coin to analyze (default from config)")
	timeframe := flag.String("timeframe", "4h", "Timeframe of the levels")
	exchanges := flag.String("exchanges", "", "Comma-separated exchanges (default from config)")
	limit := flag.Int("limit", 50, "Levels per exchange")
	since := flag.Duration("since", 0, "Only analyze levels newer than this (e.g. 12h)")
	from := flag.String("from", "", "Analyze liquidationLevels snapshots from a JSONL file instead of the API")
	metricsPath := flag.String("metrics", "", "Write Prometheus metrics to this textfile on exit")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	flag.Parse()

	a, err := app.Load(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := a.Log.Named("leverage")

	var levels []hyblock.LiquidationLevel
	if *from != "" {
		levels, err = levelsFromSnapshots(*from)
		if err != nil {
			a.Fatal(*metricsPath, "Reading snapshots failed", err)
		}
		log.Infow("Loaded snapshots", "file", *from, "levels", len(levels))
	} else {
		levels, err = fetch(a, log, *coin, *timeframe, *exchanges, *limit)
		if err != nil {
			a.Fatal(*metricsPath, "Comparing exchanges failed", err)
		}
	}

	if *since > 0 {
		now := time.Now()
		levels = analysis.FilterWindow(levels, now.Add(-*since).Unix(), now.Unix())
		log.Infow("Window applied", "since", *since, "levels", len(levels))
	}
	if len(levels) == 0 {
		fmt.Println("No liquidation levels to analyze.")
		a.Close(*metricsPath)
		return
	}

	long, short, err := analysis.PartitionBySide(levels)
	if err != nil {
		a.Fatal(*metricsPath, "Unexpected level data", err)
	}

	fmt.Printf("\nLevels: %d (long %d, short %d)\n", len(levels), len(long), len(short))
	if n := analysis.UnknownLeverage(levels); n > 0 {
		fmt.Printf("Without leverage: %d (not grouped)\n", n)
	}
	fmt.Println()
	report.Leverage(os.Stdout, analysis.GroupByLeverage(levels))
	fmt.Println()
	report.Risk(os.Stdout, analysis.RiskProfile(levels))
	if avg, ok := analysis.AverageLeverage(levels); ok {
		fmt.Printf("\nAverage leverage: %.1fx (long %s, short %s)\n",
			avg, report.USD(analysis.TotalSize(long)), report.USD(analysis.TotalSize(short)))
	}
	a.Close(*metricsPath)
}

// fetch compares the configured exchanges and returns the levels of all of them.
func fetch(a *app.App, log *logger.Logger, coin, timeframe, exchanges string, limit int) ([]hyblock.LiquidationLevel, error) {
	client, _, err := a.Client()
	if err != nil {
		return nil, err
	}

	names := a.Config.API.Exchanges
	if exchanges != "" {
		names = strings.Split(exchanges, ",")
	}
	q := hyblock.Query{
		Coin:      coin,
		Timeframe: timeframe,
		Limit:     limit,
	}
	if q.Coin == "" {
		q.Coin = a.Config.API.Coin
	}

	ctx, cancel := app.SignalContext()
	defer cancel()

	// Collect while comparing so the levels are fetched once.
	src := &collectingSource{inner: client.Liquidity}
	cmp, err := analysis.CompareExchanges(ctx, src, q, names...)
	if err != nil {
		return nil, err
	}
	log.Infow("Compared exchanges", "coin", q.Coin, "exchanges", len(names))

	report.Comparison(os.Stdout, cmp)
	return src.levels, nil
}

type collectingSource struct {
	inner  analysis.LevelSource
	levels []hyblock.LiquidationLevel
}

func (c *collectingSource) LiquidationLevels(ctx context.Context, q hyblock.Query) ([]hyblock.LiquidationLevel, error) {
	levels, err := c.inner.LiquidationLevels(ctx, q)
	c.levels = append(c.levels, levels...)
	return levels, err
}

func levelsFromSnapshots(path string) ([]hyblock.LiquidationLevel, error) {
	snaps, err := storage.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []hyblock.LiquidationLevel
	for _, s := range snaps {
		if s.Kind != collector.CallLevels {
			continue
		}
		var levels []hyblock.LiquidationLevel
		if err := s.Decode(&levels); err != nil {
			return nil, err
		}
		out = append(out, levels...)
	}
	return out, nil
}
