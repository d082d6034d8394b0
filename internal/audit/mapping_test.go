package audit

import (
	"testing"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		method, path string
		want         ActionResource
	}{
		{"GET", "/users", ActionResource{Action: "list", Resource: "user"}},
		{"GET", "/users/42", ActionResource{Action: "get", Resource: "user"}},
		{"POST", "/workspaces", ActionResource{Action: "create", Resource: "workspace"}},
		{"PUT", "/roles/7", ActionResource{Action: "update", Resource: "role"}},
		{"PATCH", "/roles/7", ActionResource{Action: "update", Resource: "role"}},
		{"DELETE", "/workspaces/9", ActionResource{Action: "delete", Resource: "workspace"}},
		{"GET", "/audit-logs?page=2&limit=20", ActionResource{Action: "list", Resource: "audit_log"}},
		{"GET", "/security-incidents/3", ActionResource{Action: "get", Resource: "security_incident"}},
		{"GET", "/statistics/overview", ActionResource{Action: "get", Resource: "statistics"}},
		{"POST", "/auth/signin", ActionResource{Action: "login", Resource: "auth"}},
		{"POST", "/auth/signup", ActionResource{Action: "register", Resource: "auth"}},
		{"POST", "/auth/verify-otp", ActionResource{Action: "verify_otp", Resource: "auth"}},
		{"POST", "/auth/reset-password", ActionResource{Action: "reset_password", Resource: "auth"}},
		{"HEAD", "/users", ActionResource{Action: "head", Resource: "user"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := ParseRoute(tt.method, tt.path)
			if got != tt.want {
				t.Errorf("ParseRoute(%q, %q) = %+v, want %+v", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestParseRoute_Unknown(t *testing.T) {
	for _, path := range []string{"", "/", "?x=1"} {
		ar := ParseRoute("GET", path)
		if ar.Action != "unknown" || ar.Resource != "unknown" {
			t.Errorf("ParseRoute(%q) = %+v, want unknown/unknown", path, ar)
		}
	}
}

func TestParseRoute_BareAuth(t *testing.T) {
	ar := ParseRoute("POST", "/auth")
	if ar.Resource != "auth" || ar.Action != "unknown" {
		t.Errorf("ParseRoute(/auth) = %+v", ar)
	}
}

func TestIsAuthRoute(t *testing.T) {
	if !IsAuthRoute("/auth/signin") {
		t.Error("/auth/signin should be an auth route")
	}
	if !IsAuthRoute("auth/verify-otp") {
		t.Error("relative auth path should be an auth route")
	}
	if IsAuthRoute("/users") {
		t.Error("/users is not an auth route")
	}
	if IsAuthRoute("/authors") {
		t.Error("/authors is not an auth route")
	}
}
