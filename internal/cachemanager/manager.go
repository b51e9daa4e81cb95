// Package cachemanager holds the read-through caches that sit in front of the
// tabs store. Entries are list snapshots keyed by space; any write flushes them.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values under string-like keys.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	Stats() Stats
}

// Stats counts lookups since creation.
type Stats struct {
	Hits   uint64
	Misses uint64
	Items  int
}
