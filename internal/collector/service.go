// Package collector runs the liquidation-pool survey used by the example commands.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
	"github.com/johan/hyblock-capital-sdk/internal/logger"
	"github.com/johan/hyblock-capital-sdk/internal/storage"
)

// LiquiditySource is the set of liquidity endpoints the survey calls.
// *hyblock.LiquidityAPI satisfies it.
type LiquiditySource interface {
	CumulativeLiqLevel(ctx context.Context, q hyblock.Query) ([]hyblock.CumulativeLiqLevel, error)
	AnchoredLiqLevelsCount(ctx context.Context, q hyblock.Query) ([]hyblock.AnchoredLiqLevelsCount, error)
	AnchoredLiqLevelsSize(ctx context.Context, q hyblock.Query) ([]hyblock.AnchoredLiqLevelsSize, error)
	LiquidationLevels(ctx context.Context, q hyblock.Query) ([]hyblock.LiquidationLevel, error)
	Liquidation(ctx context.Context, q hyblock.Query) ([]hyblock.Liquidation, error)
	LiquidationHeatmap(ctx context.Context, q hyblock.Query) ([]hyblock.LiquidationHeatmap, error)
}

// CatalogSource returns the exchange catalog. *hyblock.CatalogAPI satisfies it.
type CatalogSource interface {
	Get(ctx context.Context) (hyblock.Catalog, error)
}

// Observer is notified of skipped calls and stored snapshots. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveSurveyFailure(call string)
	ObserveSnapshot()
}

// Call names, also used as snapshot kinds.
const (
	CallCatalog      = "catalog"
	CallCumulative   = "cumulativeLiqLevel"
	CallLongCount    = "anchoredLiqLevelsCount.long"
	CallShortCount   = "anchoredLiqLevelsCount.short"
	CallAnchoredSize = "anchoredLiqLevelsSize"
	CallLevels       = "liquidationLevels"
	CallHistorical   = "liquidation"
	CallHeatmap      = "liquidationHeatmap"
)

// Options selects the market surveyed.
type Options struct {
	Coin      string
	Timeframe string
	Exchange  string
	Limit     int

	// LevelsTimeframe is used for the liquidation levels call; defaults to Timeframe.
	LevelsTimeframe string

	// Anchor for the anchored count and size calls.
	CountAnchor string
	SizeAnchor  string

	// Bucket filters historical liquidations by size bucket.
	Bucket string

	// HistoryWindow is how far back historical liquidations are requested.
	HistoryWindow time.Duration
}

// DefaultOptions returns the survey defaults for coin on exchange.
func DefaultOptions(coin, exchange string) Options {
	return Options{
		Coin:            coin,
		Timeframe:       "1h",
		Exchange:        exchange,
		Limit:           20,
		LevelsTimeframe: "4h",
		CountAnchor:     "1d",
		SizeAnchor:      "4h",
		Bucket:          "4,5,6",
		HistoryWindow:   24 * time.Hour,
	}
}

// Failure is a survey call that returned an error.
type Failure struct {
	Call string
	Err  error
}

// MarshalJSON encodes the error as its message.
func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Call  string `json:"call"`
		Error string `json:"error"`
	}{f.Call, f.Err.Error()})
}

// Report holds the data gathered by one survey.
type Report struct {
	Options    Options
	StartedAt  time.Time
	Catalog    hyblock.Catalog
	Cumulative []hyblock.CumulativeLiqLevel
	LongCount  []hyblock.AnchoredLiqLevelsCount
	ShortCount []hyblock.AnchoredLiqLevelsCount
	Sizes      []hyblock.AnchoredLiqLevelsSize
	Levels     []hyblock.LiquidationLevel
	Historical []hyblock.Liquidation
	Heatmap    []hyblock.LiquidationHeatmap

	Succeeded []string
	Failures  []Failure
}

// OK reports whether every call succeeded.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Service runs the survey.
type Service struct {
	liquidity LiquiditySource
	catalog   CatalogSource
	storage   storage.Storage
	observer  Observer
	log       *logger.Logger
	now       func() time.Time
}

// NewService creates a survey service. stor and observer may be nil.
func NewService(liquidity LiquiditySource, catalog CatalogSource, stor storage.Storage, observer Observer, log *logger.Logger) *Service {
	if stor == nil {
		stor = storage.NewNullStorage()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		liquidity: liquidity,
		catalog:   catalog,
		storage:   stor,
		observer:  observer,
		log:       log,
		now:       time.Now,
	}
}

// Survey calls every endpoint once. A failing call is logged and recorded in
// the report, and the survey moves on to the next call. Only a cancelled
// context stops it early.
func (s *Service) Survey(ctx context.Context, opts Options) (*Report, error) {
	start := s.now()
	r := &Report{Options: opts, StartedAt: start}
	log := s.log.With("coin", opts.Coin, "exchange", opts.Exchange)

	base := hyblock.Query{
		Coin:      opts.Coin,
		Timeframe: opts.Timeframe,
		Exchange:  opts.Exchange,
		Limit:     opts.Limit,
	}

	levelsTF := opts.LevelsTimeframe
	if levelsTF == "" {
		levelsTF = opts.Timeframe
	}

	calls := []struct {
		name string
		fn   func() (interface{}, int, error)
	}{
		{CallCatalog, func() (interface{}, int, error) {
			c, err := s.catalog.Get(ctx)
			r.Catalog = c
			return c, len(c), err
		}},
		{CallCumulative, func() (interface{}, int, error) {
			q := base
			q.Sort = "desc"
			v, err := s.liquidity.CumulativeLiqLevel(ctx, q)
			r.Cumulative = v
			return v, len(v), err
		}},
		{CallLongCount, func() (interface{}, int, error) {
			q := base.WithLevel(hyblock.SideLong)
			q.Anchor, q.Limit = opts.CountAnchor, 10
			v, err := s.liquidity.AnchoredLiqLevelsCount(ctx, q)
			r.LongCount = v
			return v, len(v), err
		}},
		{CallShortCount, func() (interface{}, int, error) {
			q := base.WithLevel(hyblock.SideShort)
			q.Anchor, q.Limit = opts.CountAnchor, 10
			v, err := s.liquidity.AnchoredLiqLevelsCount(ctx, q)
			r.ShortCount = v
			return v, len(v), err
		}},
		{CallAnchoredSize, func() (interface{}, int, error) {
			q := base.WithLevel(hyblock.SideLong)
			q.Anchor, q.Limit = opts.SizeAnchor, 10
			v, err := s.liquidity.AnchoredLiqLevelsSize(ctx, q)
			r.Sizes = v
			return v, len(v), err
		}},
		{CallLevels, func() (interface{}, int, error) {
			q := base
			q.Timeframe = levelsTF
			v, err := s.liquidity.LiquidationLevels(ctx, q)
			r.Levels = v
			return v, len(v), err
		}},
		{CallHistorical, func() (interface{}, int, error) {
			q := base
			q.Bucket = opts.Bucket
			if opts.HistoryWindow > 0 {
				q.EndTime = start.Unix()
				q.StartTime = start.Add(-opts.HistoryWindow).Unix()
			}
			v, err := s.liquidity.Liquidation(ctx, q)
			r.Historical = v
			return v, len(v), err
		}},
		{CallHeatmap, func() (interface{}, int, error) {
			q := base
			q.Limit = 50
			v, err := s.liquidity.LiquidationHeatmap(ctx, q)
			r.Heatmap = v
			return v, len(v), err
		}},
	}

	for _, c := range calls {
		if err := ctx.Err(); err != nil {
			return r, err
		}

		data, n, err := c.fn()
		if err != nil {
			if ctx.Err() != nil {
				return r, ctx.Err()
			}
			log.Warnw("Survey call failed, continuing", "call", c.name, "error", err)
			r.Failures = append(r.Failures, Failure{Call: c.name, Err: err})
			if s.observer != nil {
				s.observer.ObserveSurveyFailure(c.name)
			}
			continue
		}
		log.Infow("Survey call complete", "call", c.name, "records", n)
		r.Succeeded = append(r.Succeeded, c.name)
		s.store(c.name, opts, n, data)
	}
	return r, nil
}

func (s *Service) store(kind string, opts Options, n int, data interface{}) {
	snap, err := storage.NewSnapshot(kind, opts.Coin, opts.Exchange, n, data)
	if err == nil {
		err = s.storage.Write(snap)
	}
	if err != nil {
		s.log.Warnw("Storing snapshot failed", "kind", kind, "error", err)
		return
	}
	if s.observer != nil {
		s.observer.ObserveSnapshot()
	}
}

// Run surveys once, then again every interval until ctx is cancelled.
// handle receives each report. A zero interval surveys once.
func (s *Service) Run(ctx context.Context, opts Options, interval time.Duration, handle func(*Report)) error {
	s.log.Infow("Starting survey", "coin", opts.Coin, "exchange", opts.Exchange, "interval", interval)

	report, err := s.Survey(ctx, opts)
	if err != nil {
		return fmt.Errorf("survey: %w", err)
	}
	handle(report)
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Shutting down survey")
			return nil
		case <-ticker.C:
			report, err := s.Survey(ctx, opts)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("survey: %w", err)
			}
			handle(report)
		}
	}
}

// Close closes the snapshot storage.
func (s *Service) Close() error {
	return s.storage.Close()
}
