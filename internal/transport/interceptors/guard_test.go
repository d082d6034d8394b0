package interceptors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"admin-console/desktop/internal/apierror"
)

type fakeAuthorizer struct {
	allow bool
	calls []string
}

func (f *fakeAuthorizer) Allow(_ context.Context, role, action, resource string) bool {
	f.calls = append(f.calls, role+":"+action+":"+resource)
	return f.allow
}

func TestGuard_Denied(t *testing.T) {
	authz := &fakeAuthorizer{allow: false}
	ic := Guard(authz, func() string { return "member" })
	sent := false
	req := httptest.NewRequest(http.MethodDelete, "http://example.com/v1/users/42", nil)
	req = req.WithContext(WithRoute(req.Context(), "/users/42"))

	_, err := ic(req, func(*http.Request) (*http.Response, error) {
		sent = true
		return nil, nil
	})
	if !apierror.Is(err, apierror.CodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
	if sent {
		t.Error("denied request must not be sent")
	}
	if len(authz.calls) != 1 || authz.calls[0] != "member:delete:user" {
		t.Errorf("authorizer calls = %v", authz.calls)
	}
}

func TestGuard_Allowed(t *testing.T) {
	authz := &fakeAuthorizer{allow: true}
	ic := Guard(authz, func() string { return "admin" })
	req := httptest.NewRequest(http.MethodGet, "http://example.com/users", nil)
	resp, err := ic(req, respond(http.StatusOK))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Errorf("resp=%v err=%v", resp, err)
	}
}

func TestGuard_SkipsAuthRoutesAndUnknownRole(t *testing.T) {
	authz := &fakeAuthorizer{allow: false}

	ic := Guard(authz, func() string { return "member" })
	req := httptest.NewRequest(http.MethodPost, "http://example.com/auth/signin", nil)
	if _, err := ic(req, respond(http.StatusOK)); err != nil {
		t.Errorf("auth route should pass: %v", err)
	}

	ic = Guard(authz, func() string { return "" })
	req = httptest.NewRequest(http.MethodDelete, "http://example.com/users/1", nil)
	if _, err := ic(req, respond(http.StatusOK)); err != nil {
		t.Errorf("unknown role should pass: %v", err)
	}
	if len(authz.calls) != 0 {
		t.Errorf("authorizer should not be consulted, calls = %v", authz.calls)
	}
}
