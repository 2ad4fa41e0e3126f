package repository

import (
	"context"

	"reuse-gateway/internal/auth/domain/model"
)

// AuthRepository defines the interface for credential record operations
type AuthRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}
