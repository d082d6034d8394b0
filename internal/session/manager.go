// Package session owns the console's authentication state and the persisted bearer token.
// A Manager is created once and injected wherever the session is read or ended; there is no
// package-level session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"admin-console/desktop/internal/security"
	"admin-console/desktop/internal/session/domain"
	"admin-console/desktop/internal/storage"
)

// Persisted keys; both live in the "auth" domain so an allow-list keeps them across restarts.
const (
	TokenKey = "auth.token"
	UserKey  = "auth.user"
)

// ErrMalformedToken is returned by SignIn when the backend hands back a token that is not a JWT.
var ErrMalformedToken = errors.New("session: malformed bearer token")

// Manager holds the session state. Login and logout are its only writers.
type Manager struct {
	mu        sync.Mutex
	kv        storage.KV
	state     domain.Session
	observers []func()
	nowF      func() time.Time
}

// NewManager returns a signed-out Manager persisting to kv. Call Restore to pick up a stored session.
func NewManager(kv storage.KV) *Manager {
	return &Manager{kv: kv, nowF: time.Now}
}

// Restore re-hydrates the session from persisted state. A missing, malformed or expired token
// leaves the session signed out and removes the stale entries.
func (m *Manager) Restore(ctx context.Context) error {
	token, ok, err := m.kv.Get(ctx, TokenKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	claims, cerr := security.ParseClaims(token)
	if cerr != nil || claims.Expired(m.nowF()) {
		slog.Info("session: discarding stored token", "reason", restoreReason(cerr))
		_ = m.kv.Delete(ctx, TokenKey)
		_ = m.kv.Delete(ctx, UserKey)
		return nil
	}

	user := userFromClaims(claims)
	if raw, ok, err := m.kv.Get(ctx, UserKey); err == nil && ok {
		var stored domain.User
		if json.Unmarshal([]byte(raw), &stored) == nil {
			user = &stored
		}
	}

	m.mu.Lock()
	m.state = domain.Session{BearerToken: token, IsAuthenticated: true, CurrentUser: user}
	m.mu.Unlock()
	return nil
}

func restoreReason(err error) string {
	if err != nil {
		return "malformed"
	}
	return "expired"
}

// Token returns the persisted bearer token, or "" when none is stored or the store fails.
func (m *Manager) Token(ctx context.Context) string {
	token, ok, err := m.kv.Get(ctx, TokenKey)
	if err != nil {
		slog.Warn("session: read token failed", "err", err)
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// SignIn stores token and user and marks the session authenticated. When user is nil it is
// derived from the token's claims.
func (m *Manager) SignIn(ctx context.Context, token string, user *domain.User) error {
	token = strings.TrimSpace(token)
	if !security.WellFormedToken(token) {
		return ErrMalformedToken
	}
	if user == nil {
		if claims, err := security.ParseClaims(token); err == nil {
			user = userFromClaims(claims)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.kv.Set(ctx, TokenKey, token); err != nil {
		return err
	}
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := m.kv.Set(ctx, UserKey, string(raw)); err != nil {
			return err
		}
	}
	m.state = domain.Session{BearerToken: token, IsAuthenticated: true, CurrentUser: user}
	return nil
}

// Logout clears the session and the persisted token. It reports whether this call ended an
// active session; concurrent and repeated calls after the first are no-ops returning false.
func (m *Manager) Logout(ctx context.Context) bool {
	m.mu.Lock()
	active := m.state.IsAuthenticated
	if !active {
		if _, ok, err := m.kv.Get(ctx, TokenKey); err == nil && ok {
			active = true
		}
	}
	if !active {
		m.mu.Unlock()
		return false
	}
	m.state = domain.Session{}
	if err := m.kv.Delete(ctx, TokenKey); err != nil {
		slog.Warn("session: delete token failed", "err", err)
	}
	if err := m.kv.Delete(ctx, UserKey); err != nil {
		slog.Warn("session: delete user failed", "err", err)
	}
	observers := append([]func(){}, m.observers...)
	m.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
	return true
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		s.CurrentUser = &u
	}
	return s
}

// Role returns the signed-in user's role, or "" when unknown.
func (m *Manager) Role() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.CurrentUser == nil {
		return ""
	}
	return m.state.CurrentUser.Role
}

// OnLogout registers fn to run after every effective Logout.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func userFromClaims(c *security.Claims) *domain.User {
	name := c.DisplayName()
	if name == "" && c.Email == "" {
		return nil
	}
	return &domain.User{Username: name, Email: c.Email, Role: c.Role}
}
