package repository

import (
	"context"

	"github.com/jfigueroa/stockcore/internal/domain/entity"
)

// WarehouseRepository persists warehouses.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
}
