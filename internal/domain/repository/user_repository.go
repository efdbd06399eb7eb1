package repository

import (
	"context"

	"github.com/jfigueroa/stockcore/internal/domain/entity"
)

// UserRepository persists API accounts.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}
