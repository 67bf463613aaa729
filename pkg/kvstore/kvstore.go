package kvstore

import "context"

// Store is the device-local key-value snapshot store. Callers treat it as a
// best-effort cache for the next process launch: in-memory state stays the
// source of truth and write failures are logged by callers, never propagated.
type Store interface {
	// Get returns the value stored at key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
