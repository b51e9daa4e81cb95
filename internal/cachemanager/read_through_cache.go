package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache loads missing keys with fn and stores the result. Errors
// are never cached. A disabled cache always calls fn.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache    CacheManager[K, V]
	fn       func(ctx context.Context, input I) (V, error)
	ttl      time.Duration
	disabled bool
}

// NewReadThroughCache wraps cache with loader fn.
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	ttl time.Duration,
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:    cache,
		fn:       fn,
		ttl:      ttl,
		disabled: shouldSkipCache,
	}
}

// Get returns the cached value for key or loads it from input.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I) (V, error) {
	if r.disabled {
		return r.fn(ctx, input)
	}
	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}
	r.cache.Set(ctx, key, value, r.ttl)
	return value, nil
}

// Invalidate drops every cached value.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context) error {
	return r.cache.Flush(ctx)
}

// Enabled reports whether values are cached at all.
func (r *ReadThroughCache[K, V, I]) Enabled() bool {
	return !r.disabled
}
