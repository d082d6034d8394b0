package interceptors

import (
	"context"
	"net/http"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/audit"
)

// Authorizer decides whether role may perform action on resource.
type Authorizer interface {
	Allow(ctx context.Context, role, action, resource string) bool
}

// Guard returns an interceptor that rejects requests the local policy denies with a FORBIDDEN
// error and no network call. Auth routes and requests with no known role always pass; the
// backend stays the authority.
func Guard(authz Authorizer, role func() string) Interceptor {
	return func(req *http.Request, next Handler) (*http.Response, error) {
		route := routeOf(req)
		if authz == nil || role == nil || audit.IsAuthRoute(route) {
			return next(req)
		}
		r := role()
		if r == "" {
			return next(req)
		}
		ar := audit.ParseRoute(req.Method, route)
		if !authz.Allow(req.Context(), r, ar.Action, ar.Resource) {
			return nil, apierror.Precondition(apierror.CodeForbidden,
				"You do not have permission to "+ar.Action+" "+ar.Resource+".")
		}
		return next(req)
	}
}
