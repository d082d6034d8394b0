package repository

import (
	"context"
	"errors"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/audit/domain"
	"admin-console/desktop/internal/transport"
)

const basePath = "/audit-logs"

var errInvertedRange = errors.New("from must not be after to")

// HTTPRepository lists audit logs through the backend REST API.
type HTTPRepository struct {
	api transport.API
}

func NewHTTPRepository(api transport.API) *HTTPRepository {
	return &HTTPRepository{api: api}
}

// List returns one page of audit logs matching filter, newest first as ordered by the backend.
func (r *HTTPRepository) List(ctx context.Context, filter domain.Filter, params transport.ListParams) (*transport.Page[domain.AuditLog], error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, apierror.Precondition(apierror.CodeValidation, errInvertedRange.Error())
	}
	q := params.Values()
	for k, vs := range filter.Values() {
		q[k] = vs
	}
	var page transport.Page[domain.AuditLog]
	if _, err := r.api.Get(ctx, transport.WithQuery(basePath, q), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
