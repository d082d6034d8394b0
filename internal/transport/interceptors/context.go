package interceptors

import (
	"context"
	"net/http"
)

type contextKey struct{ name string }

var (
	requestIDKey = contextKey{"request_id"}
	routeKey     = contextKey{"route"}
)

// WithRequestID returns a context whose requests carry id as X-Request-ID instead of a fresh one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id from context and true if set; otherwise "", false.
func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requestIDKey).(string)
	return v, ok && v != ""
}

// WithRoute records the API route (path relative to the base URL, e.g. /users/42) so stages
// see it independently of any base path prefix.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey, route)
}

// GetRoute returns the route from context and true if set; otherwise "", false.
func GetRoute(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(routeKey).(string)
	return v, ok && v != ""
}

// routeOf returns the recorded route, falling back to the URL path.
func routeOf(req *http.Request) string {
	if r, ok := GetRoute(req.Context()); ok {
		return r
	}
	return req.URL.Path
}
