package pickups

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the dataset for a cache key.
type LoadFunc func(ctx context.Context) (*Dataset, error)

// Cache maps a load key to its normalized dataset.
//
// Entries are kept for the lifetime of the process; there is no eviction. Keys are
// either the configured row limit or upload digests, so growth is bounded by the
// number of distinct uploads a process sees.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Dataset

	// loads in flight, one per key
	group singleflight.Group
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*Dataset),
	}
}

// Get returns the cached dataset for key, if any.
func (c *Cache) Get(key string) (*Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ds, ok := c.entries[key]
	return ds, ok
}

// Len returns the number of cached datasets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrLoad returns the cached dataset for key or runs load to populate it.
// Concurrent callers for the same key share a single load. The first dataset stored
// for a key wins; errors are returned to every waiting caller and never cached.
// hit reports whether the value was already cached when GetOrLoad was called.
//
// The shared load does not inherit the cancellation of the caller that started it;
// each caller stops waiting when its own ctx is done.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load LoadFunc) (ds *Dataset, hit bool, err error) {
	if ds, ok := c.Get(key); ok {
		return ds, true, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (v interface{}, err error) {
		if ds, ok := c.Get(key); ok {
			return ds, nil
		}

		// a panic inside DoChan would crash the process
		defer func() {
			if r := recover(); r != nil {
				v, err = nil, fmt.Errorf("load %s: panic: %v", key, r)
			}
		}()

		loaded, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		return c.store(key, loaded), nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*Dataset), false, nil
	}
}

func (c *Cache) store(key string, ds *Dataset) *Dataset {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = ds
	return ds
}
