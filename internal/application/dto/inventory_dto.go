package dto

import "time"

// UpdateInventoryRequest body for POST /api/inventory/:productID/update.
// Overwrites the entry's available quantity and threshold; the reserved count
// is untouched.
type UpdateInventoryRequest struct {
	WarehouseID       string `json:"warehouse_id"`
	Quantity          int64  `json:"quantity"`
	LowStockThreshold int64  `json:"low_stock_threshold"`
}

// StockEntryResponse API shape of one ledger entry.
type StockEntryResponse struct {
	ProductID         string    `json:"product_id"`
	WarehouseID       string    `json:"warehouse_id"`
	Quantity          int64     `json:"quantity"`
	ReservedQuantity  int64     `json:"reserved_quantity"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StockMovementResponse one audit record of the ledger.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransferRequest body for POST /api/warehouses/transfer.
type TransferRequest struct {
	ProductID       string `json:"product_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int64  `json:"quantity"`
}

// BackorderResponse API shape of a backorder.
type BackorderResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	CustomerID   string    `json:"customer_id"`
	Quantity     int64     `json:"quantity"`
	ExpectedDate time.Time `json:"expected_date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
