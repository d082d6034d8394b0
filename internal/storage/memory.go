package storage

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryKV is a process-local KV. Entries may carry an expiry; expired entries read as missing.
type MemoryKV struct {
	mu   sync.RWMutex
	m    map[string]memEntry
	nowF func() time.Time
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		m:    make(map[string]memEntry),
		nowF: time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (s *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores value for key without expiry.
func (s *MemoryKV) Set(ctx context.Context, key, value string) error {
	return s.SetUntil(ctx, key, value, time.Time{})
}

// SetUntil stores value for key until expiresAt. A zero expiresAt never expires.
func (s *MemoryKV) SetUntil(ctx context.Context, key, value string, expiresAt time.Time) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = memEntry{value: value, expiresAt: expiresAt}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *MemoryKV) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryKV) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
