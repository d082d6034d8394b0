package storage

import (
	"context"
	"log/slog"

	"admin-console/desktop/internal/security"
)

// Sealed encrypts values before they reach the wrapped backend.
// Values that cannot be opened (tampered, other secret, legacy plaintext) read as missing.
type Sealed struct {
	inner  KV
	sealer *security.Sealer
}

// NewSealed wraps inner with sealer.
func NewSealed(inner KV, sealer *security.Sealer) *Sealed {
	return &Sealed{inner: inner, sealer: sealer}
}

// Get reads and opens the value for key.
func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := s.sealer.Open(raw, key)
	if err != nil {
		slog.Warn("storage: discarding unreadable sealed value", "key", key, "err", err)
		return "", false, nil
	}
	return plain, true, nil
}

// Set seals value and writes it under key.
func (s *Sealed) Set(ctx context.Context, key, value string) error {
	sealed, err := s.sealer.Seal(value, key)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, sealed)
}

// Delete removes key.
func (s *Sealed) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
