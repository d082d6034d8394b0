package repository

import (
	"context"

	"admin-console/desktop/internal/transport"
	"admin-console/desktop/internal/user/domain"
)

// Repository defines access to users.
type Repository interface {
	List(ctx context.Context, params transport.ListParams) (*transport.Page[domain.User], error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, u *domain.CreateUser) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
