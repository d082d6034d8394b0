package interceptors

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"admin-console/desktop/internal/device"
	"admin-console/desktop/internal/security"
)

// Header names. IP and MAC are sent exactly as written, not canonicalized.
const (
	HeaderAuthorization  = "Authorization"
	HeaderAcceptLanguage = "Accept-Language"
	HeaderIP             = "IP"
	HeaderMAC            = "MAC"
	HeaderRequestID      = "X-Request-ID"
)

// TokenSource returns the current bearer token, or "".
type TokenSource interface {
	Token(ctx context.Context) string
}

// LocaleSource returns the active locale tag.
type LocaleSource interface {
	Resolve(ctx context.Context) string
}

// Decorate returns an interceptor that adds the auth, locale, device and request-id headers.
// The token is attached only when well-formed. Device lookup failures yield "unknown". The stage
// itself never fails; tokens and locales may be nil.
func Decorate(tokens TokenSource, locales LocaleSource, devices device.Provider) Interceptor {
	return func(req *http.Request, next Handler) (*http.Response, error) {
		ctx := req.Context()
		req = req.Clone(ctx)

		if tokens != nil {
			if token := strings.TrimSpace(tokens.Token(ctx)); security.WellFormedToken(token) {
				req.Header.Set(HeaderAuthorization, "Bearer "+token)
			}
		}
		if locales != nil {
			if tag := locales.Resolve(ctx); tag != "" {
				req.Header.Set(HeaderAcceptLanguage, tag)
			}
		}

		id := device.Resolve(ctx, devices)
		req.Header[HeaderIP] = []string{id.IP}
		req.Header[HeaderMAC] = []string{id.MAC}

		rid, ok := GetRequestID(ctx)
		if !ok {
			rid = uuid.NewString()
		}
		req.Header.Set(HeaderRequestID, rid)

		return next(req)
	}
}
