// Command liquidation-pools surveys the Hyblock liquidity endpoints for one
// coin and exchange and prints a summary.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/johan/hyblock-capital-sdk/internal/app"
	"github.com/johan/hyblock-capital-sdk/internal/collector"
	"github.com/johan/hyblock-capital-sdk/internal/report"
	"github.com/johan/hyblock-capital-sdk/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	coin := flag.String("coin", "", "Coin to survey (default from config)")
	exchange := flag.String("exchange", "", "Exchange to survey (default: first configured exchange)")
	timeframe := flag.String("timeframe", "", "Timeframe (default from config)")
	limit := flag.Int("limit", 20, "Records per call")
	watch := flag.Bool("watch", false, "Repeat the survey until interrupted")
	interval := flag.Duration("interval", 5*time.Minute, "Survey interval (with --watch)")
	save := flag.Bool("save", false, "Store every response as a snapshot (file storage)")
	output := flag.String("output", "table", "Output format: table or json")
	metricsPath := flag.String("metrics", "", "Write Prometheus metrics to this textfile on exit")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	flag.Parse()

	a, err := app.Load(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg := a.Config

	client, _, err := a.Client()
	if err != nil {
		a.Fatal(*metricsPath, "Client setup failed", err)
	}

	storageCfg := cfg.Storage
	if *save {
		storageCfg.Type = "file"
	}
	stor, err := storage.New(storageCfg)
	if err != nil {
		a.Fatal(*metricsPath, "Storage setup failed", err)
	}

	opts := collector.DefaultOptions(valueOr(*coin, cfg.API.Coin), *exchange)
	if opts.Exchange == "" && len(cfg.API.Exchanges) > 0 {
		opts.Exchange = cfg.API.Exchanges[0]
	}
	opts.Timeframe = valueOr(*timeframe, cfg.API.Timeframe)
	opts.Limit = *limit

	svc := collector.NewService(client.Liquidity, client.Catalog, stor, a.Metrics, a.Log.Named("survey"))
	defer svc.Close()

	ctx, cancel := app.SignalContext()
	defer cancel()

	every := time.Duration(0)
	if *watch {
		every = *interval
	}

	err = svc.Run(ctx, opts, every, func(r *collector.Report) {
		if *output == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(r); err != nil {
				a.Log.Warnw("Encoding report failed", "error", err)
			}
			return
		}
		report.Survey(os.Stdout, r)
		fmt.Println()
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		svc.Close()
		a.Fatal(*metricsPath, "Survey failed", err)
	}

	if fs, ok := stor.(*storage.FileStorage); ok {
		a.Log.Infow("Snapshots stored", "file", fs.CurrentPath(), "count", fs.Written())
	}
	a.Close(*metricsPath)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
