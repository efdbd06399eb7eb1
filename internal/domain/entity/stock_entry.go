package entity

import "time"

// StockEntry is the ledger's unit of account, keyed by (ProductID, WarehouseID).
// Quantity is the available, unreserved count; ReservedQuantity the units
// committed to in-flight orders. Both are always >= 0. An entry is created
// lazily on the first level set or transfer credit for its key and is never
// deleted, only zeroed.
type StockEntry struct {
	ProductID         string
	WarehouseID       string
	Quantity          int64
	ReservedQuantity  int64
	LowStockThreshold int64
	UpdatedAt         time.Time
}

// Movement types recorded for every ledger mutation.
const (
	MovementTypeSET     = "SET"
	MovementTypeRESERVE = "RESERVE"
	MovementTypeRELEASE = "RELEASE"
	MovementTypeADJUST  = "ADJUST"
)

// StockMovement is the audit record of a single ledger mutation. Quantity is
// signed: negative for stock leaving the available pool. Movements sharing a
// TransactionID belong to the same higher-level operation (e.g. the two legs
// of a transfer).
type StockMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	WarehouseID   string
	Type          string
	Quantity      int64
	CreatedAt     time.Time
}
