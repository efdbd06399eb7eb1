package entity

import "time"

// OrderStatus lifecycle: an order is created PENDING and moves exactly once
// to COMPLETED or REJECTED. Terminal states are never re-opened.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusRejected  OrderStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transition.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusRejected
}

// Order is a customer request against one warehouse.
// RejectionReason names the first item that could not be reserved; empty for
// pending and completed orders.
type Order struct {
	ID              string
	CustomerID      string
	WarehouseID     string
	Status          OrderStatus
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItem
}

// OrderItem is a line item. Immutable once the parent order is terminal.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
}
