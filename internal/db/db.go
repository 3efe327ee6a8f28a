// Package db defines the key-value store contract used for the embedding
// cache. The catalog index itself is a remote managed service and is not
// accessed through this package.
package db

import (
	"context"
	"time"
)

// Store is the key-value facade backed by Redis.
type Store interface {
	KVStore
	Ping(ctx context.Context) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
