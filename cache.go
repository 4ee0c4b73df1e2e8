package gosyncpack

import (
	"context"
	"sync"
)

// PackumentCache stores raw packument documents between runs or between
// registry clients. Implementations must be safe for concurrent use.
type PackumentCache interface {
	// Get returns the cached document and true on a hit.
	Get(ctx context.Context, name string) ([]byte, bool, error)
	// Put stores a document.
	Put(ctx context.Context, name string, content []byte) error
}

// Compile-time interface compliance checks
var _ PackumentCache = NoopCache{}
var _ PackumentCache = (*MemoryCache)(nil)

// NoopCache is a cache that discards all writes and always returns cache misses.
type NoopCache struct{}

// Get always returns a cache miss.
func (NoopCache) Get(ctx context.Context, name string) ([]byte, bool, error) {
	return nil, false, nil
}

// Put discards the content and returns success.
func (NoopCache) Put(ctx context.Context, name string, content []byte) error {
	return nil
}

// MemoryCache is a thread-safe in-memory cache.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string][]byte),
	}
}

// Get retrieves a cached packument.
func (c *MemoryCache) Get(ctx context.Context, name string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.items[name]
	if !ok {
		return nil, false, nil
	}
	// Return a copy to prevent mutation
	result := make([]byte, len(content))
	copy(result, content)
	return result, true, nil
}

// Put stores a packument.
func (c *MemoryCache) Put(ctx context.Context, name string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := make([]byte, len(content))
	copy(stored, content)
	c.items[name] = stored
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string][]byte)
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
