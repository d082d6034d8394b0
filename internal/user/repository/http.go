package repository

import (
	"context"
	"net/url"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/transport"
	"admin-console/desktop/internal/user/domain"
)

const basePath = "/users"

// HTTPRepository reads and writes users through the backend REST API.
type HTTPRepository struct {
	api transport.API
}

// NewHTTPRepository returns a user repository that uses api for every call.
func NewHTTPRepository(api transport.API) *HTTPRepository {
	return &HTTPRepository{api: api}
}

// List returns one page of users matching params.
func (r *HTTPRepository) List(ctx context.Context, params transport.ListParams) (*transport.Page[domain.User], error) {
	var page transport.Page[domain.User]
	if _, err := r.api.Get(ctx, transport.WithQuery(basePath, params.Values()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetByID returns the user for id. A missing user is a NOT_FOUND error.
func (r *HTTPRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, apierror.Precondition(apierror.CodeValidation, "id is required")
	}
	var u domain.User
	if _, err := r.api.Get(ctx, itemPath(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create validates u and creates it, returning the stored user.
func (r *HTTPRepository) Create(ctx context.Context, u *domain.CreateUser) (*domain.User, error) {
	if err := u.Validate(); err != nil {
		return nil, apierror.Precondition(apierror.CodeValidation, err.Error())
	}
	var out domain.User
	if _, err := r.api.Post(ctx, basePath, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the user identified by u.ID.
func (r *HTTPRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u.ID == "" {
		return nil, apierror.Precondition(apierror.CodeValidation, "id is required")
	}
	if err := u.Validate(); err != nil {
		return nil, apierror.Precondition(apierror.CodeValidation, err.Error())
	}
	var out domain.User
	if _, err := r.api.Put(ctx, itemPath(u.ID), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the user for id.
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
