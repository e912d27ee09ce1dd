package hyblock

import (
	"context"
	"fmt"
)

// Liquidity endpoint paths.
const (
	PathCumulativeLiqLevel     = "/cumulativeLiqLevel"
	PathAnchoredLiqLevelsCount = "/anchoredLiqLevelsCount"
	PathAnchoredLiqLevelsSize  = "/anchoredLiqLevelsSize"
	PathLiquidationLevels      = "/liquidationLevels"
	PathLiquidation            = "/liquidation"
	PathLiquidationHeatmap     = "/liquidationHeatmap"
)

// LiquidityAPI groups the liquidity endpoints.
type LiquidityAPI struct {
	client *Client
}

// CumulativeLiqLevel fetches cumulative liquidation totals per timestamp.
func (a *LiquidityAPI) CumulativeLiqLevel(ctx context.Context, q Query) ([]CumulativeLiqLevel, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return getList[CumulativeLiqLevel](ctx, a.client, PathCumulativeLiqLevel, q.Values())
}

// AnchoredLiqLevelsCount fetches anchored level counts for q.Level.
func (a *LiquidityAPI) AnchoredLiqLevelsCount(ctx context.Context, q Query) ([]AnchoredLiqLevelsCount, error) {
	if err := requireLevel(q); err != nil {
		return nil, err
	}
	return getList[AnchoredLiqLevelsCount](ctx, a.client, PathAnchoredLiqLevelsCount, q.Values())
}

// AnchoredLiqLevelsSize fetches anchored level sizes for q.Level.
func (a *LiquidityAPI) AnchoredLiqLevelsSize(ctx context.Context, q Query) ([]AnchoredLiqLevelsSize, error) {
	if err := requireLevel(q); err != nil {
		return nil, err
	}
	return getList[AnchoredLiqLevelsSize](ctx, a.client, PathAnchoredLiqLevelsSize, q.Values())
}

// LiquidationLevels fetches individual liquidation pools with leverage and side.
func (a *LiquidityAPI) LiquidationLevels(ctx context.Context, q Query) ([]LiquidationLevel, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return getList[LiquidationLevel](ctx, a.client, PathLiquidationLevels, q.Values())
}

// Liquidation fetches aggregated historical liquidation periods.
func (a *LiquidityAPI) Liquidation(ctx context.Context, q Query) ([]Liquidation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return getList[Liquidation](ctx, a.client, PathLiquidation, q.Values())
}

// LiquidationHeatmap fetches heatmap price buckets.
func (a *LiquidityAPI) LiquidationHeatmap(ctx context.Context, q Query) ([]LiquidationHeatmap, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return getList[LiquidationHeatmap](ctx, a.client, PathLiquidationHeatmap, q.Values())
}

func requireLevel(q Query) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if q.Level == "" {
		return fmt.Errorf("%w: level required", ErrInvalidQuery)
	}
	return nil
}

// CatalogAPI groups the catalog endpoint.
type CatalogAPI struct {
	client *Client
}

// PathCatalog is the catalog endpoint path.
const PathCatalog = "/catalog"

// Get fetches the exchange to coin catalog.
func (a *CatalogAPI) Get(ctx context.Context) (Catalog, error) {
	var catalog Catalog
	if err := a.client.get(ctx, PathCatalog, nil, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}
