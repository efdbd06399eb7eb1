package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
)

var _ repository.BackorderRepository = (*BackorderRepo)(nil)

// BackorderRepo BackorderRepository over PostgreSQL (usable with pool or tx).
type BackorderRepo struct {
	q Querier
}

func NewBackorderRepository(q Querier) *BackorderRepo {
	return &BackorderRepo{q: q}
}

// Create persists one backorder.
func (r *BackorderRepo) Create(ctx context.Context, b *entity.Backorder) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	query := `
		INSERT INTO backorders (id, product_id, customer_id, quantity, expected_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ProductID, b.CustomerID, b.Quantity, b.ExpectedDate, b.Status, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert backorder: %w", err)
	}
	return nil
}

// List returns backorders, newest first.
func (r *BackorderRepo) List(ctx context.Context, limit, offset int) ([]*entity.Backorder, error) {
	query := `
		SELECT id, product_id, customer_id, quantity, expected_date, status, created_at
		FROM backorders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list backorders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Backorder
	for rows.Next() {
		var b entity.Backorder
		if err := rows.Scan(&b.ID, &b.ProductID, &b.CustomerID, &b.Quantity, &b.ExpectedDate, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan backorder: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
