package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo StockEntryRepository over PostgreSQL (usable with pool or tx).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository builds the adapter. Pass pool or tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

const stockEntryColumns = `product_id, warehouse_id, quantity, reserved_quantity, low_stock_threshold, updated_at`

// Get reads one entry; (nil, nil) when the key has no row yet.
func (r *StockEntryRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	query := `
		SELECT ` + stockEntryColumns + `
		FROM stock_entries WHERE product_id = $1 AND warehouse_id = $2`
	return r.scanOne(ctx, query, productID, warehouseID)
}

// GetForUpdate reads the entry and locks its row until the surrounding
// transaction ends. (nil, nil) when the key has no row yet.
func (r *StockEntryRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	query := `
		SELECT ` + stockEntryColumns + `
		FROM stock_entries WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	return r.scanOne(ctx, query, productID, warehouseID)
}

func (r *StockEntryRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.StockEntry, error) {
	var e entity.StockEntry
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&e.ProductID, &e.WarehouseID, &e.Quantity, &e.ReservedQuantity, &e.LowStockThreshold, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return &e, nil
}

// Upsert inserts or updates the entry for its (product, warehouse) key.
func (r *StockEntryRepo) Upsert(ctx context.Context, entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (product_id, warehouse_id, quantity, reserved_quantity, low_stock_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              reserved_quantity = EXCLUDED.reserved_quantity,
		              low_stock_threshold = EXCLUDED.low_stock_threshold,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		entry.ProductID, entry.WarehouseID, entry.Quantity, entry.ReservedQuantity, entry.LowStockThreshold,
	)
	if err != nil {
		return fmt.Errorf("upsert stock entry: %w", err)
	}
	return nil
}

// AddQuantity creates the entry with delta units when absent, otherwise adds
// delta to the stored quantity. The conflict arm locks the existing row, so a
// concurrent transaction that created the row first is waited on and its
// committed quantity is added to, never overwritten.
func (r *StockEntryRepo) AddQuantity(ctx context.Context, productID, warehouseID string, delta, newEntryThreshold int64) (*entity.StockEntry, error) {
	query := `
		INSERT INTO stock_entries (product_id, warehouse_id, quantity, reserved_quantity, low_stock_threshold, updated_at)
		VALUES ($1, $2, $3, 0, $4, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = stock_entries.quantity + EXCLUDED.quantity,
		              updated_at = now()
		RETURNING ` + stockEntryColumns
	var e entity.StockEntry
	err := r.q.QueryRow(ctx, query, productID, warehouseID, delta, newEntryThreshold).Scan(
		&e.ProductID, &e.WarehouseID, &e.Quantity, &e.ReservedQuantity, &e.LowStockThreshold, &e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("add stock quantity: %w", err)
	}
	return &e, nil
}

// ListByProduct returns the entries of one product across all warehouses.
func (r *StockEntryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockEntry, error) {
	query := `
		SELECT ` + stockEntryColumns + `
		FROM stock_entries WHERE product_id = $1 ORDER BY warehouse_id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()
	return scanStockEntries(rows)
}

// ListRecentlyUpdated returns up to limit entries, most recent first.
func (r *StockEntryRepo) ListRecentlyUpdated(ctx context.Context, limit int) ([]*entity.StockEntry, error) {
	query := `
		SELECT ` + stockEntryColumns + `
		FROM stock_entries ORDER BY updated_at DESC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent stock entries: %w", err)
	}
	defer rows.Close()
	return scanStockEntries(rows)
}

func scanStockEntries(rows pgx.Rows) ([]*entity.StockEntry, error) {
	var list []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(&e.ProductID, &e.WarehouseID, &e.Quantity, &e.ReservedQuantity, &e.LowStockThreshold, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
