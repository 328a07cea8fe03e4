package repository

import (
	"context"

	"userAuthBackend/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	EnsureSchema(ctx context.Context) error
	FindByCredentials(ctx context.Context, username, password *string) (*models.User, error)
	Insert(ctx context.Context, username, password, email *string) (*models.User, error)
}

var _ UserRepositoryI = (*UserRepository)(nil)
