package repository

import (
	"context"

	"github.com/jfigueroa/stockcore/internal/domain/entity"
)

// ProductRepository persists products and their variants.
type ProductRepository interface {
	// Create inserts a product; returns domain.ErrDuplicate on a SKU clash.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)

	CreateVariant(ctx context.Context, v *entity.ProductVariant) error
	ListVariants(ctx context.Context, productID string) ([]*entity.ProductVariant, error)
}
