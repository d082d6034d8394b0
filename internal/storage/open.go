package storage

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"admin-console/desktop/internal/security"
)

// Options selects and configures the persistent backend.
type Options struct {
	Backend     string // file, sqlite, redis, memory
	Path        string // file or sqlite path
	Secret      string // optional; seals values at rest
	RedisAddr   string
	RedisPrefix string
}

// Open builds the persistent backend described by opts. The returned close func is never nil.
func Open(opts Options) (KV, func() error, error) {
	var (
		kv      KV
		closeFn = func() error { return nil }
	)
	switch opts.Backend {
	case "", "file":
		f, err := OpenFileKV(opts.Path)
		if err != nil {
			return nil, nil, err
		}
		kv = f
	case "sqlite":
		s, err := OpenSQLite(opts.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		kv, closeFn = s, s.Close
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		kv, closeFn = NewRedisKV(client, opts.RedisPrefix), client.Close
	case "memory":
		kv = NewMemoryKV()
	default:
		return nil, nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}

	if opts.Secret != "" {
		sealer, err := security.NewSealer(opts.Secret)
		if err != nil {
			_ = closeFn()
			return nil, nil, err
		}
		kv = NewSealed(kv, sealer)
	}
	return kv, closeFn, nil
}
