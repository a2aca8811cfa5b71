// Package kv is the device persistence layer: a small durable key-value
// store holding the profile blob, the cached session, and the various
// completion markers, each under its own fixed string key.
package kv

import "context"

// Store is the persistence contract. Get returns (nil, nil) for a missing
// key so callers can treat absence as "no data" without error plumbing.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	Close() error
}
