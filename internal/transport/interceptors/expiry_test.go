package interceptors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"admin-console/desktop/internal/navigation"
	"admin-console/desktop/internal/security"
	"admin-console/desktop/internal/session"
	"admin-console/desktop/internal/storage"
)

type countingSession struct {
	calls  int32
	active int32
}

func (s *countingSession) Logout(context.Context) bool {
	atomic.AddInt32(&s.calls, 1)
	return atomic.CompareAndSwapInt32(&s.active, 1, 0)
}

func respond(status int) Handler {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: status, Body: http.NoBody}, nil
	}
}

func TestSessionExpiry_PassesThrough(t *testing.T) {
	sess := &countingSession{active: 1}
	var redirects int32
	ic := SessionExpiry(sess, navigation.RedirectorFunc(func(context.Context) { atomic.AddInt32(&redirects, 1) }))
	req := httptest.NewRequest(http.MethodGet, "http://example.com/users", nil)

	for _, status := range []int{200, 403, 404, 500} {
		resp, err := ic(req, respond(status))
		if err != nil || resp.StatusCode != status {
			t.Errorf("status %d: resp=%v err=%v", status, resp, err)
		}
	}
	transportErr := errors.New("connection refused")
	if _, err := ic(req, func(*http.Request) (*http.Response, error) { return nil, transportErr }); err != transportErr {
		t.Errorf("transport error should propagate unchanged, got %v", err)
	}
	if sess.calls != 0 || redirects != 0 {
		t.Errorf("logout calls=%d redirects=%d, want 0", sess.calls, redirects)
	}
}

func TestSessionExpiry_401LogsOutAndRedirectsOnce(t *testing.T) {
	sess := &countingSession{active: 1}
	var redirects int32
	ic := SessionExpiry(sess, navigation.RedirectorFunc(func(context.Context) { atomic.AddInt32(&redirects, 1) }))
	req := httptest.NewRequest(http.MethodGet, "http://example.com/users", nil)

	for i := 0; i < 3; i++ {
		resp, err := ic(req, respond(http.StatusUnauthorized))
		if err != nil {
			t.Fatalf("interceptor: %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("401 should still reach the caller, got %d", resp.StatusCode)
		}
	}
	if sess.calls != 3 {
		t.Errorf("logout calls = %d, want 3", sess.calls)
	}
	if redirects != 1 {
		t.Errorf("redirects = %d, want 1", redirects)
	}
}

func TestSessionExpiry_ConcurrentUnauthorized(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	mgr := session.NewManager(kv)
	token, err := security.NewTestToken("bob", "bob@x.com", "admin", time.Hour)
	if err != nil {
		t.Fatalf("NewTestToken: %v", err)
	}
	if err := mgr.SignIn(ctx, token, nil); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var redirects int32
	redirect := navigation.RedirectorFunc(func(context.Context) { atomic.AddInt32(&redirects, 1) })
	client := &http.Client{Transport: Chain(nil, Decorate(mgr, nil, nil), SessionExpiry(mgr, redirect))}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(srv.URL + "/users")
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			resp.Body.Close()
		}()
	}
	wg.Wait()

	if redirects != 1 {
		t.Errorf("redirects = %d, want exactly 1", redirects)
	}
	if mgr.Token(ctx) != "" {
		t.Error("token should be gone after 401")
	}
	if mgr.Snapshot().IsAuthenticated {
		t.Error("session should be signed out")
	}
}

func TestSessionExpiry_NilCollaborators(t *testing.T) {
	ic := SessionExpiry(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "http://example.com/users", nil)
	resp, err := ic(req, respond(http.StatusUnauthorized))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("resp=%v err=%v", resp, err)
	}
}

func TestSessionExpiry_SignedOutUnauthorizedDoesNotRedirect(t *testing.T) {
	mgr := session.NewManager(storage.NewMemoryKV())
	var redirects int32
	ic := SessionExpiry(mgr, navigation.RedirectorFunc(func(context.Context) { atomic.AddInt32(&redirects, 1) }))
	req := httptest.NewRequest(http.MethodPost, "http://example.com/auth/signin", nil)

	resp, err := ic(req, respond(http.StatusUnauthorized))
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 passed to the caller", resp.StatusCode)
	}
	if redirects != 0 {
		t.Errorf("redirects = %d, want 0 when no session was active", redirects)
	}
	if mgr.Snapshot().IsAuthenticated {
		t.Error("session should stay signed out")
	}
}
