package entity

import "time"

// Backorder statuses.
const (
	BackorderStatusOpen      = "OPEN"
	BackorderStatusFulfilled = "FULFILLED"
	BackorderStatusCancelled = "CANCELLED"
)

// Backorder records demand that could not be satisfied from available stock.
// Its lifecycle is independent of the order whose rejection created it.
type Backorder struct {
	ID           string
	ProductID    string
	CustomerID   string
	Quantity     int64
	ExpectedDate time.Time
	Status       string
	CreatedAt    time.Time
}
