package dto

import "time"

// OrderItemInput one requested line item.
type OrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateOrderRequest body for POST /api/orders.
type CreateOrderRequest struct {
	CustomerID  string           `json:"customer_id"`
	WarehouseID string           `json:"warehouse_id"`
	Items       []OrderItemInput `json:"items"`
}

// OrderItemResponse API shape of a line item.
type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// OrderResponse API shape of an order. RejectionReason is present only on
// rejected orders.
type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerID      string              `json:"customer_id"`
	WarehouseID     string              `json:"warehouse_id"`
	Status          string              `json:"status"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
