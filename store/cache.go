// ABOUTME: Shared read cache for collection-level list results
// ABOUTME: Invalidated per collection after every successful mutation
package store

import (
	"sync"
)

// ListCache caches List results per collection. Services invalidate the
// affected collection after every successful mutating persist so the next
// list is fresh; reads in between are served from the cached snapshot.
type ListCache struct {
	mu      sync.RWMutex
	entries map[string][]*Document
}

func NewListCache() *ListCache {
	return &ListCache{
		entries: make(map[string][]*Document),
	}
}

// Get returns the cached list for a collection, if present.
func (c *ListCache) Get(collection string) ([]*Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	docs, ok := c.entries[collection]
	return docs, ok
}

// Put stores a list snapshot for a collection.
func (c *ListCache) Put(collection string, docs []*Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[collection] = docs
}

// Invalidate drops the cached list for a collection.
func (c *ListCache) Invalidate(collection string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, collection)
}

// InvalidateAll drops every cached list.
func (c *ListCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]*Document)
}
