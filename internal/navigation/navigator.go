// Package navigation lets non-UI code send the user to the login screen without knowing
// how the UI routes. The mounted UI registers a callback; otherwise a hard fallback is used.
package navigation

import (
	"context"
	"log/slog"
	"sync"
)

// LoginPath is the route of the login screen.
const LoginPath = "/login"

// Redirector is the only navigation capability core code depends on.
type Redirector interface {
	RedirectToLogin(ctx context.Context)
}

// Navigator is a Redirector whose target is registered at runtime by the UI shell.
type Navigator struct {
	mu       sync.RWMutex
	navigate func(path string)
	fallback func(path string)
}

// NewNavigator returns a Navigator that calls fallback when no UI callback is registered.
// fallback may be nil, in which case the redirect is only logged.
func NewNavigator(fallback func(path string)) *Navigator {
	return &Navigator{fallback: fallback}
}

// SetNavigate registers the mounted UI's navigation function.
func (n *Navigator) SetNavigate(fn func(path string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navigate = fn
}

// ClearNavigate unregisters the UI callback, e.g. when the UI unmounts.
func (n *Navigator) ClearNavigate() {
	n.SetNavigate(nil)
}

// RedirectToLogin navigates to LoginPath through the registered callback or the fallback.
func (n *Navigator) RedirectToLogin(ctx context.Context) {
	n.mu.RLock()
	navigate, fallback := n.navigate, n.fallback
	n.mu.RUnlock()

	switch {
	case navigate != nil:
		navigate(LoginPath)
	case fallback != nil:
		slog.Debug("navigation: no UI navigator registered; using fallback", "path", LoginPath)
		fallback(LoginPath)
	default:
		slog.Info("navigation: redirect to login requested", "path", LoginPath)
	}
}

// RedirectorFunc adapts a function to Redirector.
type RedirectorFunc func(ctx context.Context)

// RedirectToLogin calls f.
func (f RedirectorFunc) RedirectToLogin(ctx context.Context) { f(ctx) }
