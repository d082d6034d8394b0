package repository

import (
	"context"

	"admin-console/desktop/internal/audit/domain"
	"admin-console/desktop/internal/transport"
)

// Repository defines read access to audit logs.
type Repository interface {
	List(ctx context.Context, filter domain.Filter, params transport.ListParams) (*transport.Page[domain.AuditLog], error)
}
