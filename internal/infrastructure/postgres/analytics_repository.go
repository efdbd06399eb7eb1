package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jfigueroa/stockcore/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo read-only aggregates over the ledger (usable with pool or tx).
type AnalyticsRepo struct {
	q Querier
}

func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// TotalProducts counts catalog products.
func (r *AnalyticsRepo) TotalProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// LowStockCount counts entries at or below their threshold.
func (r *AnalyticsRepo) LowStockCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_entries WHERE quantity <= low_stock_threshold`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}

// WarehouseStockTotals returns every warehouse with its summed quantity.
// Warehouses with no entries appear with a zero total.
func (r *AnalyticsRepo) WarehouseStockTotals(ctx context.Context) ([]repository.WarehouseStockTotal, error) {
	query := `
		SELECT w.id, w.name, w.capacity, COALESCE(SUM(s.quantity), 0)
		FROM warehouses w
		LEFT JOIN stock_entries s ON s.warehouse_id = w.id
		GROUP BY w.id, w.name, w.capacity
		ORDER BY w.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("warehouse stock totals: %w", err)
	}
	defer rows.Close()
	var list []repository.WarehouseStockTotal
	for rows.Next() {
		var t repository.WarehouseStockTotal
		var total decimal.Decimal
		if err := rows.Scan(&t.WarehouseID, &t.Name, &t.Capacity, &total); err != nil {
			return nil, fmt.Errorf("scan warehouse total: %w", err)
		}
		t.TotalQuantity = total
		list = append(list, t)
	}
	return list, rows.Err()
}
