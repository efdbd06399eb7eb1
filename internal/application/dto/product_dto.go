package dto

import "time"

// CreateProductRequest body for POST /api/products.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SKU         string `json:"sku"`
	Category    string `json:"category"`
}

// UpdateProductRequest body for PUT /api/products/:id. SKU is immutable and
// intentionally absent.
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ProductResponse API shape of a product.
type ProductResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateVariantRequest body for POST /api/products/:id/variants.
type CreateVariantRequest struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	Attributes string `json:"attributes"`
}

// VariantResponse API shape of a product variant.
type VariantResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	Attributes string    `json:"attributes"`
	CreatedAt  time.Time `json:"created_at"`
}
