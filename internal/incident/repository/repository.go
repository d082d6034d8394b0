package repository

import (
	"context"

	"admin-console/desktop/internal/incident/domain"
	"admin-console/desktop/internal/transport"
)

// Repository defines read access to security incidents.
type Repository interface {
	List(ctx context.Context, params transport.ListParams) (*transport.Page[domain.Incident], error)
	GetByID(ctx context.Context, id string) (*domain.Incident, error)
}
