// Package cache stores rendered artifacts keyed by everything that affects
// their bytes.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// the HTTP service and [NullCache] when caching is disabled. Keys come from a
// [Keyer]; [ScopedKeyer] prefixes them so the CLI and the service can share
// one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A zero ttl never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
