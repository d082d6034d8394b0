package interceptors

import (
	"context"
	"log/slog"
	"net/http"

	"admin-console/desktop/internal/navigation"
)

// Session is the part of the session manager the expiry stage needs.
type Session interface {
	// Logout ends the session and reports whether this call performed the transition.
	Logout(ctx context.Context) bool
}

// SessionExpiry returns an interceptor that ends the session on HTTP 401. Only the call that
// actually transitions the session redirects to login, so concurrent 401s produce one logout
// and one redirect; a 401 while already signed out (e.g. bad credentials) does not redirect.
// The 401 response is still returned to the caller. Transport errors and other statuses pass
// through unchanged.
func SessionExpiry(sess Session, redirect navigation.Redirector) Interceptor {
	return func(req *http.Request, next Handler) (*http.Response, error) {
		resp, err := next(req)
		if err != nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
			return resp, err
		}
		if sess == nil {
			return resp, err
		}
		ctx := context.WithoutCancel(req.Context())
		if sess.Logout(ctx) {
			slog.Info("session expired", "method", req.Method, "route", routeOf(req))
			if redirect != nil {
				redirect.RedirectToLogin(ctx)
			}
		}
		return resp, err
	}
}
