package events

// Event type discriminators carried in the "type" field of every payload.
const (
	TypeLowStockAlert     = "low_stock_alert"
	TypeOrderCompleted    = "order_completed"
	TypeInventoryTransfer = "inventory_transfer"
)

// Event is any domain event the broadcaster can deliver. Payload structs are
// serialized as-is; each carries its own "type" field.
type Event interface {
	EventType() string
}

// LowStockAlert fires when a committed level set leaves quantity at or below
// the entry's threshold.
type LowStockAlert struct {
	Type         string `json:"type"`
	ProductID    string `json:"product_id"`
	WarehouseID  string `json:"warehouse_id"`
	CurrentStock int64  `json:"current_stock"`
}

// NewLowStockAlert builds the alert payload.
func NewLowStockAlert(productID, warehouseID string, currentStock int64) LowStockAlert {
	return LowStockAlert{
		Type:         TypeLowStockAlert,
		ProductID:    productID,
		WarehouseID:  warehouseID,
		CurrentStock: currentStock,
	}
}

func (LowStockAlert) EventType() string { return TypeLowStockAlert }

// OrderCompleted fires when a fulfillment attempt reserves every item.
type OrderCompleted struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderCompleted builds the completion payload.
func NewOrderCompleted(orderID, status string) OrderCompleted {
	return OrderCompleted{Type: TypeOrderCompleted, OrderID: orderID, Status: status}
}

func (OrderCompleted) EventType() string { return TypeOrderCompleted }

// InventoryTransfer fires when both legs of a warehouse transfer commit.
type InventoryTransfer struct {
	Type          string `json:"type"`
	ProductID     string `json:"product_id"`
	FromWarehouse string `json:"from_warehouse"`
	ToWarehouse   string `json:"to_warehouse"`
	Quantity      int64  `json:"quantity"`
}

// NewInventoryTransfer builds the transfer payload.
func NewInventoryTransfer(productID, fromWarehouse, toWarehouse string, quantity int64) InventoryTransfer {
	return InventoryTransfer{
		Type:          TypeInventoryTransfer,
		ProductID:     productID,
		FromWarehouse: fromWarehouse,
		ToWarehouse:   toWarehouse,
		Quantity:      quantity,
	}
}

func (InventoryTransfer) EventType() string { return TypeInventoryTransfer }
