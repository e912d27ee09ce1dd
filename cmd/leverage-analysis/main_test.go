package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan/hyblock-capital-sdk/internal/collector"
	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
	"github.com/johan/hyblock-capital-sdk/internal/storage"
)

func TestLevelsFromSnapshots(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir(), time.Hour)
	require.NoError(t, err)

	levels := []hyblock.LiquidationLevel{
		{Timestamp: 1, Size: decimal.NewFromInt(100), Leverage: 10, Side: hyblock.SideLong},
		{Timestamp: 2, Size: decimal.NewFromInt(200), Leverage: 50, Side: hyblock.SideShort},
	}
	write := func(kind string, data interface{}) {
		snap, err := storage.NewSnapshot(kind, "BTC", "binance", 2, data)
		require.NoError(t, err)
		require.NoError(t, fs.Write(snap))
	}
	write(collector.CallLevels, levels)
	write(collector.CallHistorical, []hyblock.Liquidation{{OpenDate: 1}})
	write(collector.CallLevels, levels[:1])
	require.NoError(t, fs.Close())

	got, err := levelsFromSnapshots(fs.CurrentPath())
	require.NoError(t, err)
	require.Len(t, got, 3, "only liquidation level snapshots are read")
	assert.Equal(t, hyblock.Leverage(50), got[1].Leverage)
	assert.Equal(t, int64(1), got[2].Timestamp)
}
