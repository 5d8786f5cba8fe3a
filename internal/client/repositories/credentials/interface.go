package credentials

import "context"

// Store is a persistent string key-value store. Reads never fail: a storage
// error is reported as an absent key. Writes return the storage error so the
// caller can decide whether to log it.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error

	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, kv map[string]string) error
	// RemoveMany deletes all keys atomically. Missing keys are ignored.
	RemoveMany(ctx context.Context, keys ...string) error
	// Take reads and deletes key in one step, so at most one caller across
	// all processes sharing the store observes a given value.
	Take(ctx context.Context, key string) (string, bool)
}
