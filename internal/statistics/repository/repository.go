package repository

import (
	"context"

	"admin-console/desktop/internal/statistics/domain"
	"admin-console/desktop/internal/transport"
)

const overviewPath = "/statistics/overview"

// Repository reads dashboard statistics.
type Repository interface {
	Overview(ctx context.Context) (*domain.Overview, error)
}

type HTTPRepository struct {
	api transport.API
}

func NewHTTPRepository(api transport.API) *HTTPRepository {
	return &HTTPRepository{api: api}
}

func (r *HTTPRepository) Overview(ctx context.Context) (*domain.Overview, error) {
	var o domain.Overview
	if _, err := r.api.Get(ctx, overviewPath, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
