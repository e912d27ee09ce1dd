package collector

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
	"github.com/johan/hyblock-capital-sdk/internal/storage"
)

type fakeLiquidity struct {
	queries  map[string]hyblock.Query
	failures map[string]error
}

func newFakeLiquidity() *fakeLiquidity {
	return &fakeLiquidity{queries: map[string]hyblock.Query{}, failures: map[string]error{}}
}

func (f *fakeLiquidity) record(name string, q hyblock.Query) error {
	f.queries[name] = q
	return f.failures[name]
}

func (f *fakeLiquidity) CumulativeLiqLevel(_ context.Context, q hyblock.Query) ([]hyblock.CumulativeLiqLevel, error) {
	if err := f.record(CallCumulative, q); err != nil {
		return nil, err
	}
	return []hyblock.CumulativeLiqLevel{{Timestamp: 1, TotalLongLiquidationCount: 3}}, nil
}

func (f *fakeLiquidity) AnchoredLiqLevelsCount(_ context.Context, q hyblock.Query) ([]hyblock.AnchoredLiqLevelsCount, error) {
	name := CallShortCount
	if q.Level == hyblock.SideLong {
		name = CallLongCount
	}
	if err := f.record(name, q); err != nil {
		return nil, err
	}
	return []hyblock.AnchoredLiqLevelsCount{{OpenDate: 1, TotalCount: 42}}, nil
}

func (f *fakeLiquidity) AnchoredLiqLevelsSize(_ context.Context, q hyblock.Query) ([]hyblock.AnchoredLiqLevelsSize, error) {
	if err := f.record(CallAnchoredSize, q); err != nil {
		return nil, err
	}
	return []hyblock.AnchoredLiqLevelsSize{{OpenDate: 1, TotalSize: decimal.NewFromInt(1000)}}, nil
}

func (f *fakeLiquidity) LiquidationLevels(_ context.Context, q hyblock.Query) ([]hyblock.LiquidationLevel, error) {
	if err := f.record(CallLevels, q); err != nil {
		return nil, err
	}
	return []hyblock.LiquidationLevel{
		{Timestamp: 1, Size: decimal.NewFromInt(5), Leverage: 10, Side: hyblock.SideLong},
		{Timestamp: 2, Size: decimal.NewFromInt(7), Leverage: 50, Side: hyblock.SideShort},
	}, nil
}

func (f *fakeLiquidity) Liquidation(_ context.Context, q hyblock.Query) ([]hyblock.Liquidation, error) {
	if err := f.record(CallHistorical, q); err != nil {
		return nil, err
	}
	return []hyblock.Liquidation{{OpenDate: 1}}, nil
}

func (f *fakeLiquidity) LiquidationHeatmap(_ context.Context, q hyblock.Query) ([]hyblock.LiquidationHeatmap, error) {
	if err := f.record(CallHeatmap, q); err != nil {
		return nil, err
	}
	return []hyblock.LiquidationHeatmap{{Timestamp: 1, Side: hyblock.SideLong}}, nil
}

type fakeCatalog struct{ err error }

func (f fakeCatalog) Get(context.Context) (hyblock.Catalog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return hyblock.Catalog{"binance": {"BTC", "ETH"}}, nil
}

type memStorage struct{ snaps []*storage.Snapshot }

func (m *memStorage) Write(s *storage.Snapshot) error { m.snaps = append(m.snaps, s); return nil }
func (m *memStorage) Close() error                    { return nil }

type countingObserver struct {
	failures  []string
	snapshots int
}

func (c *countingObserver) ObserveSurveyFailure(call string) { c.failures = append(c.failures, call) }
func (c *countingObserver) ObserveSnapshot()                 { c.snapshots++ }

func fixedClock() time.Time { return time.Unix(1_700_000_000, 0) }

func TestSurvey(t *testing.T) {
	liq := newFakeLiquidity()
	stor := &memStorage{}
	obs := &countingObserver{}
	svc := NewService(liq, fakeCatalog{}, stor, obs, nil)
	svc.now = fixedClock

	r, err := svc.Survey(context.Background(), DefaultOptions("BTC", "binance"))
	require.NoError(t, err)
	assert.True(t, r.OK())
	assert.Len(t, r.Succeeded, 8)
	assert.Len(t, stor.snaps, 8)
	assert.Equal(t, 8, obs.snapshots)

	assert.True(t, r.Catalog.Has("binance", "ETH"))
	assert.Equal(t, 42, r.LongCount[0].TotalCount)
	assert.Len(t, r.Levels, 2)

	assert.Equal(t, "desc", liq.queries[CallCumulative].Sort)
	assert.Equal(t, hyblock.SideShort, liq.queries[CallShortCount].Level)
	assert.Equal(t, "1d", liq.queries[CallShortCount].Anchor)
	assert.Equal(t, "4h", liq.queries[CallAnchoredSize].Anchor)
	assert.Equal(t, "4h", liq.queries[CallLevels].Timeframe)
	assert.Equal(t, 50, liq.queries[CallHeatmap].Limit)

	hist := liq.queries[CallHistorical]
	assert.Equal(t, "4,5,6", hist.Bucket)
	assert.Equal(t, int64(1_700_000_000), hist.EndTime)
	assert.Equal(t, int64(1_700_000_000-86400), hist.StartTime)

	assert.Equal(t, CallCatalog, stor.snaps[0].Kind)
	assert.Equal(t, "binance", stor.snaps[1].Exchange)
}

func TestSurveyContinuesAfterFailure(t *testing.T) {
	liq := newFakeLiquidity()
	liq.failures[CallLongCount] = &hyblock.APIError{Status: 403, Reason: "plan does not include endpoint"}
	liq.failures[CallHeatmap] = &hyblock.RateLimitError{RetryAfter: time.Minute}
	obs := &countingObserver{}

	svc := NewService(liq, fakeCatalog{err: errors.New("connection reset")}, nil, obs, nil)
	r, err := svc.Survey(context.Background(), DefaultOptions("BTC", "binance"))
	require.NoError(t, err)

	assert.False(t, r.OK())
	require.Len(t, r.Failures, 3)
	assert.Equal(t, CallCatalog, r.Failures[0].Call)
	assert.Equal(t, CallLongCount, r.Failures[1].Call)
	assert.ErrorIs(t, r.Failures[1].Err, hyblock.ErrForbidden)
	assert.ErrorIs(t, r.Failures[2].Err, hyblock.ErrRateLimited)
	assert.Equal(t, []string{CallCatalog, CallLongCount, CallHeatmap}, obs.failures)

	assert.Len(t, r.Succeeded, 5)
	assert.Len(t, r.ShortCount, 1, "short count still fetched")
}

func TestSurveyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	liq := newFakeLiquidity()
	_, err := NewService(liq, fakeCatalog{}, nil, nil, nil).Survey(ctx, DefaultOptions("BTC", ""))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, liq.queries)
}

func TestRunOnce(t *testing.T) {
	svc := NewService(newFakeLiquidity(), fakeCatalog{}, nil, nil, nil)

	var reports int
	err := svc.Run(context.Background(), DefaultOptions("ETH", "bybit"), 0, func(*Report) { reports++ })
	require.NoError(t, err)
	assert.Equal(t, 1, reports)
	assert.NoError(t, svc.Close())
}

func TestRunWatch(t *testing.T) {
	svc := NewService(newFakeLiquidity(), fakeCatalog{}, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reports int
	err := svc.Run(ctx, DefaultOptions("BTC", "binance"), 10*time.Millisecond, func(*Report) {
		reports++
		if reports == 3 {
			cancel()
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 3, reports)
}

func TestFailureJSON(t *testing.T) {
	data, err := json.Marshal(Failure{Call: CallHeatmap, Err: errors.New("boom")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"call":"liquidationHeatmap","error":"boom"}`, string(data))
}
