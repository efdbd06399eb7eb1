package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// WarehouseStockTotal is one aggregate row for the utilization report.
type WarehouseStockTotal struct {
	WarehouseID   string
	Name          string
	Capacity      int64
	TotalQuantity decimal.Decimal
}

// AnalyticsRepository exposes read-only aggregates over the ledger.
// No method here mutates state.
type AnalyticsRepository interface {
	TotalProducts(ctx context.Context) (int64, error)

	// LowStockCount counts entries with quantity <= low_stock_threshold.
	LowStockCount(ctx context.Context) (int64, error)

	// WarehouseStockTotals returns every warehouse with the summed quantity it
	// currently holds.
	WarehouseStockTotals(ctx context.Context) ([]WarehouseStockTotal, error)
}
