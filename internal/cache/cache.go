// Package cache provides a small generic keyed cache used to memoize
// derived read models. Invalidation is explicit: callers delete keys
// after their underlying write is durably applied.
package cache

import (
	"context"
	"time"
)

// Cache is a keyed store for derived values.
type Cache[T any] interface {
	// Get retrieves a value, reporting whether it was present and fresh.
	Get(key string) (T, bool)

	// Set stores a value under the key, replacing any previous entry.
	Set(key string, data T)

	// Delete removes the key. A Get that starts after Delete returns
	// must not observe the removed value.
	Delete(key string)

	// Size returns the current number of live entries.
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically sweeps expired entries from registered caches.
type Janitor struct {
	caches   []Cleaner
	interval time.Duration
}

// NewJanitor creates a janitor sweeping at the given interval.
func NewJanitor(interval time.Duration) *Janitor {
	return &Janitor{interval: interval}
}

// Register adds a cache to the sweep set. Not safe to call after Run.
func (j *Janitor) Register(c Cleaner) {
	j.caches = append(j.caches, c)
}

// Run sweeps until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, c := range j.caches {
				c.CleanExpired()
			}
		}
	}
}
