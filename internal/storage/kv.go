// Package storage provides the key-value backends that hold persisted client state
// (bearer token, signed-in user, locale preference).
//
// Keys are namespaced by domain: the text before the first '.' (e.g. "auth.token" is in
// domain "auth"). AllowList uses the domain to decide which keys survive a restart.
package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrEmptyKey is returned when a backend is given an empty key.
	ErrEmptyKey = errors.New("storage: key is empty")
)

// KV is a string key-value store. Get returns ok false (and no error) for missing keys.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Domain returns the domain of key: the text before the first '.', or key itself.
func Domain(key string) string {
	if i := strings.IndexByte(key, '.'); i >= 0 {
		return key[:i]
	}
	return key
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
