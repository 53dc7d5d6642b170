package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

// DefaultMemoryEntries bounds a MemoryCache created with maxEntries <= 0.
const DefaultMemoryEntries = 256

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
	seq       uint64
}

// MemoryCache is an in-process cache. When full, the oldest entry is evicted.
// It is safe for concurrent use.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	seq        uint64
	now        func() time.Time
}

// NewMemoryCache creates a memory cache holding at most maxEntries values.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves a value. Expired entries are dropped and reported as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return slices.Clone(e.data), true, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.seq++
	e := memoryEntry{data: slices.Clone(data), seq: c.seq}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) evictOldest() {
	var oldest string
	var oldestSeq uint64
	for k, e := range c.entries {
		if oldest == "" || e.seq < oldestSeq {
			oldest, oldestSeq = k, e.seq
		}
	}
	delete(c.entries, oldest)
}

// Delete removes a value.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

var _ Cache = (*MemoryCache)(nil)
