package docgraph

import (
	"sync"
	"time"

	"github.com/matzehuels/linkgraph/pkg/markdown"
)

// ParsedFile is a parsed document.
type ParsedFile struct {
	Path    string         `json:"path"` // root-relative, slash-separated
	Links   markdown.Links `json:"links"`
	Stats   markdown.Stats `json:"stats"`
	ModTime time.Time      `json:"mod_time"`
}

// Entry is one parse-cache record.
//
// LinksOnly entries come from the index scan: links were extracted but no
// statistics computed. They serve link lookups; a full parse treats them as a
// miss.
type Entry struct {
	File      ParsedFile
	ModTime   time.Time
	LinksOnly bool
}

// ValidAt reports whether the entry still describes a file last modified at t.
func (e Entry) ValidAt(t time.Time) bool {
	return e.ModTime.Equal(t)
}

// CacheStats summarizes a ParseCache.
type CacheStats struct {
	Count int `json:"count"`
}

// ParseCache maps full file paths to parsed documents. It is safe for
// concurrent use.
type ParseCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewParseCache creates an empty cache.
func NewParseCache() *ParseCache {
	return &ParseCache{entries: make(map[string]Entry)}
}

// Get returns the entry for fullPath. Validity against the file's current
// modification time is the caller's check (see [Entry.ValidAt]).
func (c *ParseCache) Get(fullPath string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[fullPath]
	return e, ok
}

// Put stores or replaces the entry for fullPath.
func (c *ParseCache) Put(fullPath string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fullPath] = e
}

// Invalidate drops the entry for fullPath.
func (c *ParseCache) Invalidate(fullPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, fullPath)
}

// InvalidateAll drops every entry.
func (c *ParseCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Stats returns the number of cached entries.
func (c *ParseCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Count: len(c.entries)}
}
