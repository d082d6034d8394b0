package repository

import (
	"context"

	"admin-console/desktop/internal/transport"
	"admin-console/desktop/internal/workspace/domain"
)

// Repository defines access to workspaces.
type Repository interface {
	List(ctx context.Context, params transport.ListParams) (*transport.Page[domain.Workspace], error)
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
	Create(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error)
	Update(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error)
	Delete(ctx context.Context, id string) error
}
