package repository

import (
	"context"

	"github.com/badgerspace/backend/internal/model"
)

// UserRepository persists the identity records consumed from the auth layer.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}
