package repository

import (
	"context"
	"net/url"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/role/domain"
	"admin-console/desktop/internal/transport"
)

const basePath = "/roles"

// HTTPRepository implements Repository over the backend REST API.
type HTTPRepository struct {
	api transport.API
}

func NewHTTPRepository(api transport.API) *HTTPRepository {
	return &HTTPRepository{api: api}
}

func (r *HTTPRepository) List(ctx context.Context, params transport.ListParams) (*transport.Page[domain.Role], error) {
	var page transport.Page[domain.Role]
	if _, err := r.api.Get(ctx, transport.WithQuery(basePath, params.Values()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *HTTPRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	if err := role.Validate(); err != nil {
		return nil, apierror.Precondition(apierror.CodeValidation, err.Error())
	}
	if domain.BuiltIn(role.Name) {
		return nil, apierror.Precondition(apierror.CodeConflict, "role "+role.Name+" already exists")
	}
	var out domain.Role
	if _, err := r.api.Post(ctx, basePath, role, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *HTTPRepository) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	if role.ID == "" {
		return nil, apierror.Precondition(apierror.CodeValidation, "id is required")
	}
	if err := role.Validate(); err != nil {
		return nil, apierror.Precondition(apierror.CodeValidation, err.Error())
	}
	var out domain.Role
	if _, err := r.api.Put(ctx, basePath+"/"+url.PathEscape(role.ID), role, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *HTTPRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apierror.Precondition(apierror.CodeValidation, "id is required")
	}
	_, err := r.api.Delete(ctx, basePath+"/"+url.PathEscape(id))
	return err
}
