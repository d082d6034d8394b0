package storage

import "context"

// AllowList routes keys by domain: allow-listed domains go to the persistent backend,
// every other key lives only in the volatile backend and is lost on restart.
type AllowList struct {
	persistent KV
	volatile   KV
	domains    map[string]bool
}

// NewAllowList returns a KV persisting only keys whose domain is in domains.
// volatile may be nil, in which case an in-memory store is used.
func NewAllowList(persistent, volatile KV, domains ...string) *AllowList {
	if volatile == nil {
		volatile = NewMemoryKV()
	}
	set := make(map[string]bool, len(domains))
	for _, d := range domains {
		set[d] = true
	}
	return &AllowList{persistent: persistent, volatile: volatile, domains: set}
}

// Persisted reports whether key would survive a restart.
func (a *AllowList) Persisted(key string) bool {
	return a.domains[Domain(key)]
}

func (a *AllowList) backend(key string) KV {
	if a.Persisted(key) {
		return a.persistent
	}
	return a.volatile
}

// Get reads key from the backend its domain maps to.
func (a *AllowList) Get(ctx context.Context, key string) (string, bool, error) {
	return a.backend(key).Get(ctx, key)
}

// Set writes key to the backend its domain maps to.
func (a *AllowList) Set(ctx context.Context, key, value string) error {
	return a.backend(key).Set(ctx, key, value)
}

// Delete removes key from the backend its domain maps to.
func (a *AllowList) Delete(ctx context.Context, key string) error {
	return a.backend(key).Delete(ctx, key)
}
