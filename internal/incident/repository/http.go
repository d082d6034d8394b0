package repository

import (
	"context"
	"net/url"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/incident/domain"
	"admin-console/desktop/internal/transport"
)

const basePath = "/security-incidents"

type HTTPRepository struct {
	api transport.API
}

func NewHTTPRepository(api transport.API) *HTTPRepository {
	return &HTTPRepository{api: api}
}

func (r *HTTPRepository) List(ctx context.Context, params transport.ListParams) (*transport.Page[domain.Incident], error) {
	var page transport.Page[domain.Incident]
	if _, err := r.api.Get(ctx, transport.WithQuery(basePath, params.Values()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *HTTPRepository) GetByID(ctx context.Context, id string) (*domain.Incident, error) {
	if id == "" {
		return nil, apierror.Precondition(apierror.CodeValidation, "id is required")
	}
	var inc domain.Incident
	if _, err := r.api.Get(ctx, basePath+"/"+url.PathEscape(id), &inc); err != nil {
		return nil, err
	}
	return &inc, nil
}
