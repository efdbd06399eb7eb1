package repository

import (
	"context"

	"github.com/jfigueroa/stockcore/internal/domain/entity"
)

// StockEntryRepository is the persistence port for the ledger's stock rows.
// Get/GetForUpdate return (nil, nil) when no entry exists for the key.
type StockEntryRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error)

	// GetForUpdate reads the entry and locks its row for the duration of the
	// surrounding transaction (SELECT ... FOR UPDATE). This is what serializes
	// concurrent mutations on the same (product, warehouse) key.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error)

	Upsert(ctx context.Context, entry *entity.StockEntry) error

	// AddQuantity creates the entry with delta units and newEntryThreshold
	// when no row exists, otherwise adds delta to the stored quantity and
	// keeps the stored threshold. The update arm takes the row lock, so two
	// transactions creating the same key serialize instead of overwriting
	// each other. Returns the resulting entry.
	AddQuantity(ctx context.Context, productID, warehouseID string, delta, newEntryThreshold int64) (*entity.StockEntry, error)

	ListByProduct(ctx context.Context, productID string) ([]*entity.StockEntry, error)

	// ListRecentlyUpdated returns up to limit entries ordered by most recent
	// update, for the analytics snapshot job.
	ListRecentlyUpdated(ctx context.Context, limit int) ([]*entity.StockEntry, error)
}

// StockMovementRepository persists the audit trail of ledger mutations.
type StockMovementRepository interface {
	Create(ctx context.Context, mov *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
