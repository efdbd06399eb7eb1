package entity

import "time"

// Warehouse is a physical location holding stock. Capacity is the declared
// upper bound on total units; it is advisory and reported as a utilization
// metric, never enforced by the ledger.
type Warehouse struct {
	ID        string
	Name      string
	Location  string
	Capacity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
