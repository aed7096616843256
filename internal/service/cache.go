package service

import (
	"sync"

	"github.com/raphaelgruber/etymon/internal/models"
)

// Cache memoizes fetched etymologies by normalized query key.
// It has no eviction: entries live as long as the Cache.
// Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*models.EtymologyData
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*models.EtymologyData)}
}

// Get returns the entry for key.
func (c *Cache) Get(key string) (*models.EtymologyData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[key]
	return d, ok
}

// Put stores data under key, replacing any previous entry.
func (c *Cache) Put(key string, data *models.EtymologyData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
