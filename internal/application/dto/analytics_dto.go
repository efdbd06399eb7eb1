package dto

import "github.com/shopspring/decimal"

// WarehouseUtilizationDTO utilization percentage of one warehouse.
type WarehouseUtilizationDTO struct {
	WarehouseID string          `json:"warehouse_id"`
	Name        string          `json:"name"`
	Utilization decimal.Decimal `json:"utilization"`
}

// InventoryOverviewResponse body for GET /api/analytics/inventory.
type InventoryOverviewResponse struct {
	TotalProducts        int64                     `json:"total_products"`
	LowStockItems        int64                     `json:"low_stock_items"`
	WarehouseUtilization []WarehouseUtilizationDTO `json:"warehouse_utilization"`
}
