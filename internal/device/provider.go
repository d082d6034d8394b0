// Package device looks up the local network identity (IP, MAC, interface) attached to every
// outgoing API request. The lookup is best-effort: failures yield the "unknown" sentinel.
package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"admin-console/desktop/internal/device/domain"
)

// lookupTimeout bounds a single identity lookup so a stuck bridge never delays a request for long.
const lookupTimeout = 2 * time.Second

// ErrUnavailable is returned by Unavailable, e.g. when running outside the desktop shell.
var ErrUnavailable = errors.New("device: identity bridge unavailable")

// Provider returns the current device identity. Implementations may fail or be slow.
type Provider interface {
	DeviceIdentity(ctx context.Context) (domain.Identity, error)
}

// ProviderFunc adapts a function (e.g. a callback registered by the desktop shell) to Provider.
type ProviderFunc func(ctx context.Context) (domain.Identity, error)

// DeviceIdentity calls f.
func (f ProviderFunc) DeviceIdentity(ctx context.Context) (domain.Identity, error) {
	return f(ctx)
}

// Unavailable is the Provider used when no shell bridge exists. It always fails.
type Unavailable struct{}

// DeviceIdentity returns ErrUnavailable.
func (Unavailable) DeviceIdentity(context.Context) (domain.Identity, error) {
	return domain.Identity{}, ErrUnavailable
}

type lookupResult struct {
	id  domain.Identity
	err error
}

// Resolve queries p and never fails: a nil provider, an error, a panic or a timeout
// all produce domain.UnknownIdentity().
func Resolve(ctx context.Context, p Provider) domain.Identity {
	if p == nil {
		return domain.UnknownIdentity()
	}
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	done := make(chan lookupResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- lookupResult{err: fmt.Errorf("device: provider panic: %v", r)}
			}
		}()
		id, err := p.DeviceIdentity(ctx)
		done <- lookupResult{id: id, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			slog.Debug("device: identity lookup failed", "err", res.err)
			return domain.UnknownIdentity()
		}
		return res.id.Normalize()
	case <-ctx.Done():
		slog.Debug("device: identity lookup timed out", "err", ctx.Err())
		return domain.UnknownIdentity()
	}
}
