package repository

import (
	"context"

	"github.com/jfigueroa/stockcore/internal/domain/entity"
)

// OrderRepository persists orders with their items.
type OrderRepository interface {
	// Create inserts the order and its items in one transaction.
	Create(ctx context.Context, order *entity.Order) error

	// GetByID returns the order with items, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*entity.Order, error)

	// SetStatus moves the order to the given status; reason is stored only
	// for rejections.
	SetStatus(ctx context.Context, id string, status entity.OrderStatus, reason string) error

	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error)
}

// BackorderRepository persists unmet-demand records.
type BackorderRepository interface {
	Create(ctx context.Context, b *entity.Backorder) error
	List(ctx context.Context, limit, offset int) ([]*entity.Backorder, error)
}
