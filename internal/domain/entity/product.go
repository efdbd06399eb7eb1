package entity

import "time"

// Product is a sellable item identified by a globally unique SKU.
// Identity and SKU are immutable after creation; name, description and
// category are descriptive and may change.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductVariant is a passthrough record owned by a Product
// (e.g. color/size). Attributes holds a free-form JSON document.
type ProductVariant struct {
	ID         string
	ProductID  string
	Name       string
	SKU        string
	Attributes string
	CreatedAt  time.Time
}
