package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"admin-console/desktop/internal/apierror"
	identitydomain "admin-console/desktop/internal/identity/domain"
	"admin-console/desktop/internal/security"
	"admin-console/desktop/internal/session"
	"admin-console/desktop/internal/storage"
	"admin-console/desktop/internal/transport"
)

// backend records every call and answers from a per-path table.
type backend struct {
	mu      sync.Mutex
	calls   []string
	bodies  map[string]map[string]any
	replies map[string]func(w http.ResponseWriter)
}

func newBackend() *backend {
	return &backend{bodies: map[string]map[string]any{}, replies: map[string]func(w http.ResponseWriter){}}
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.mu.Lock()
	b.calls = append(b.calls, r.URL.Path)
	b.bodies[r.URL.Path] = body
	reply := b.replies[r.URL.Path]
	b.mu.Unlock()
	if reply != nil {
		reply(w)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func newTestAuthService(t *testing.T, b *backend) (*AuthService, *session.Manager) {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	client, err := transport.NewClient(transport.Options{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	mgr := session.NewManager(storage.NewMemoryKV())
	return NewAuthService(client, mgr), mgr
}

func TestAuthService_SignIn(t *testing.T) {
	token, err := security.NewTestToken("bob", "bob@x.com", "admin", time.Hour)
	if err != nil {
		t.Fatalf("NewTestToken: %v", err)
	}
	b := newBackend()
	b.replies[PathSignIn] = func(w http.ResponseWriter) {
		_, _ = io.WriteString(w, `{"accessToken":"`+token+`","user":{"userName":"Bob","email":"bob@x.com","role":"admin"}}`)
	}
	svc, mgr := newTestAuthService(t, b)

	user, err := svc.SignIn(context.Background(), identitydomain.Credentials{Email: " Bob@X.com ", Password: "Abc12345!"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if user.Username != "Bob" {
		t.Errorf("user = %+v", user)
	}
	if b.bodies[PathSignIn]["email"] != "bob@x.com" {
		t.Errorf("email sent = %v, want normalized", b.bodies[PathSignIn]["email"])
	}
	snap := mgr.Snapshot()
	if !snap.IsAuthenticated || snap.BearerToken != token {
		t.Errorf("session = %+v", snap)
	}
}

func TestAuthService_SignInUserFromClaims(t *testing.T) {
	token, _ := security.NewTestToken("carol", "carol@x.com", "member", time.Hour)
	b := newBackend()
	b.replies[PathSignIn] = func(w http.ResponseWriter) {
		_, _ = io.WriteString(w, `{"data":{"token":"`+token+`"},"status":200}`)
	}
	svc, mgr := newTestAuthService(t, b)

	if _, err := svc.SignIn(context.Background(), identitydomain.Credentials{Email: "carol@x.com", Password: "pw"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if u := mgr.Snapshot().CurrentUser; u == nil || u.Username != "carol" || u.Role != "member" {
		t.Errorf("user from claims = %+v", u)
	}
}

func TestAuthService_SignInFailures(t *testing.T) {
	b := newBackend()
	b.replies[PathSignIn] = func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"msg":"Invalid email or password"}`)
	}
	svc, mgr := newTestAuthService(t, b)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, identitydomain.Credentials{Email: "bob@x.com", Password: "wrong"})
	if e, ok := apierror.As(err); !ok || e.Code != apierror.CodeBadRequest || e.Message != "Invalid email or password" {
		t.Errorf("err = %v", err)
	}

	if _, err := svc.SignIn(ctx, identitydomain.Credentials{Email: "nope", Password: "x"}); !apierror.Is(err, apierror.CodeValidation) {
		t.Errorf("invalid email err = %v", err)
	}
	if _, err := svc.SignIn(ctx, identitydomain.Credentials{Email: "bob@x.com"}); !apierror.Is(err, apierror.CodeValidation) {
		t.Errorf("missing password err = %v", err)
	}
	if len(b.calls) != 1 {
		t.Errorf("calls = %v, want only the first to reach the backend", b.calls)
	}
	if mgr.Snapshot().IsAuthenticated {
		t.Error("failed sign-in must not create a session")
	}
}

func TestAuthService_SignInMalformedToken(t *testing.T) {
	b := newBackend()
	b.replies[PathSignIn] = func(w http.ResponseWriter) { _, _ = io.WriteString(w, `{"token":"nope"}`) }
	svc, _ := newTestAuthService(t, b)
	_, err := svc.SignIn(context.Background(), identitydomain.Credentials{Email: "bob@x.com", Password: "pw"})
	if !apierror.Is(err, apierror.CodeUnknown) {
		t.Errorf("err = %v, want UNKNOWN", err)
	}
}

func TestAuthService_OTPEndpoints(t *testing.T) {
	b := newBackend()
	svc, _ := newTestAuthService(t, b)
	ctx := context.Background()

	if err := svc.SendOTP(ctx, "bob", "bob@x.com"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if err := svc.SendOTPCode(ctx, "bob@x.com", identitydomain.FlowForgotPassword); err != nil {
		t.Fatalf("SendOTPCode: %v", err)
	}
	if err := svc.VerifyOTP(ctx, "bob@x.com", "AB12CD", identitydomain.FlowRegister); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if err := svc.CreateAccount(ctx, identitydomain.Registration{UserName: "bob", Email: "bob@x.com", Password: "Abc12345!"}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := svc.ResetPassword(ctx, "bob@x.com", "N3wPass!"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	want := []string{PathSignUp, PathSendOTPCode, PathVerifyOTP, PathRegist, PathResetPassword}
	if len(b.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", b.calls, want)
	}
	for i := range want {
		if b.calls[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, b.calls[i], want[i])
		}
	}
	if got := b.bodies[PathSignUp]; got["userName"] != "bob" || got["email"] != "bob@x.com" {
		t.Errorf("signup body = %v", got)
	}
	if got := b.bodies[PathSendOTPCode]; got["type"] != "forgotPassword" {
		t.Errorf("sendotpcode body = %v", got)
	}
	if got := b.bodies[PathVerifyOTP]; got["otp"] != "AB12CD" || got["type"] != "register" {
		t.Errorf("verify body = %v", got)
	}
	if got := b.bodies[PathRegist]; got["userName"] != "bob" || got["password"] != "Abc12345!" {
		t.Errorf("regist body = %v", got)
	}
	if got := b.bodies[PathResetPassword]; got["password"] != "N3wPass!" {
		t.Errorf("reset body = %v", got)
	}
}

func TestAuthService_PreconditionsSkipNetwork(t *testing.T) {
	b := newBackend()
	svc, _ := newTestAuthService(t, b)
	ctx := context.Background()

	if err := svc.SendOTP(ctx, "  ", "bob@x.com"); !apierror.Is(err, apierror.CodeValidation) {
		t.Errorf("SendOTP empty name err = %v", err)
	}
	if err := svc.SendOTPCode(ctx, "bob@x.com", "other"); !apierror.Is(err, apierror.CodeFlowState) {
		t.Errorf("SendOTPCode bad flow err = %v", err)
	}
	if len(b.calls) != 0 {
		t.Errorf("calls = %v, want none", b.calls)
	}
}

func TestAuthService_Logout(t *testing.T) {
	token, _ := security.NewTestToken("bob", "bob@x.com", "admin", time.Hour)
	b := newBackend()
	svc, mgr := newTestAuthService(t, b)
	ctx := context.Background()
	if err := mgr.SignIn(ctx, token, nil); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !svc.Logout(ctx) {
		t.Error("Logout should end the session")
	}
	if svc.Logout(ctx) {
		t.Error("second Logout should be a no-op")
	}
	if len(b.calls) != 0 {
		t.Errorf("logout is local, calls = %v", b.calls)
	}
}
