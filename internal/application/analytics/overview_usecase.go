package analytics

import (
	"context"

	"github.com/jfigueroa/stockcore/internal/application/dto"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OverviewUseCase serves the read-only inventory analytics report: product
// count, low-stock entries and per-warehouse capacity utilization.
type OverviewUseCase struct {
	repo repository.AnalyticsRepository
}

// NewOverviewUseCase builds the use case.
func NewOverviewUseCase(repo repository.AnalyticsRepository) *OverviewUseCase {
	return &OverviewUseCase{repo: repo}
}

// Overview aggregates the current ledger state. Utilization is
// sum(quantity)/capacity as a percentage; a warehouse with no declared
// capacity reports zero.
func (uc *OverviewUseCase) Overview(ctx context.Context) (*dto.InventoryOverviewResponse, error) {
	totalProducts, err := uc.repo.TotalProducts(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.repo.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := uc.repo.WarehouseStockTotals(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.InventoryOverviewResponse{
		TotalProducts: totalProducts,
		LowStockItems: lowStock,
	}
	for _, t := range totals {
		utilization := decimal.Zero
		if t.Capacity > 0 {
			utilization = t.TotalQuantity.
				Div(decimal.NewFromInt(t.Capacity)).
				Mul(hundred).
				Round(2)
		}
		out.WarehouseUtilization = append(out.WarehouseUtilization, dto.WarehouseUtilizationDTO{
			WarehouseID: t.WarehouseID,
			Name:        t.Name,
			Utilization: utilization,
		})
	}
	return out, nil
}
