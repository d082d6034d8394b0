package repository

import (
	"context"

	"admin-console/desktop/internal/role/domain"
	"admin-console/desktop/internal/transport"
)

// Repository defines access to roles.
type Repository interface {
	List(ctx context.Context, params transport.ListParams) (*transport.Page[domain.Role], error)
	Create(ctx context.Context, r *domain.Role) (*domain.Role, error)
	Update(ctx context.Context, r *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
}
