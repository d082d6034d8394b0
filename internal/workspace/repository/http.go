package repository

import (
	"context"
	"net/url"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/transport"
	"admin-console/desktop/internal/workspace/domain"
)

const basePath = "/workspaces"

// HTTPRepository reads and writes workspaces through the backend REST API.
type HTTPRepository struct {
	api transport.API
}

func NewHTTPRepository(api transport.API) *HTTPRepository {
	return &HTTPRepository{api: api}
}

func (r *HTTPRepository) List(ctx context.Context, params transport.ListParams) (*transport.Page[domain.Workspace], error) {
	var page transport.Page[domain.Workspace]
	if _, err := r.api.Get(ctx, transport.WithQuery(basePath, params.Values()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *HTTPRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	if id == "" {
		return nil, apierror.Precondition(apierror.CodeValidation, "id is required")
	}
	var w domain.Workspace
	if _, err := r.api.Get(ctx, itemPath(id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *HTTPRepository) Create(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error) {
	if err := w.Validate(); err != nil {
		return nil, apierror.Precondition(apierror.CodeValidation, err.Error())
	}
	var out domain.Workspace
	if _, err := r.api.Post(ctx, basePath, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *HTTPRepository) Update(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error) {
	if w.ID == "" {
		return nil, apierror.Precondition(apierror.CodeValidation, "id is required")
	}
	if err := w.Validate(); err != nil {
		return nil, apierror.Precondition(apierror.CodeValidation, err.Error())
	}
	var out domain.Workspace
	if _, err := r.api.Put(ctx, itemPath(w.ID), w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *HTTPRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apierror.Precondition(apierror.CodeValidation, "id is required")
	}
	_, err := r.api.Delete(ctx, itemPath(id))
	return err
}

func itemPath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}
