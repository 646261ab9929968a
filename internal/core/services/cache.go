package services

import (
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

// SourceCache holds the last fetched repository per source and the time of
// each source's last successful fetch. Readers never block on the network.
type SourceCache struct {
	mu          sync.RWMutex
	entries     map[string]domain.CacheEntry
	lastUpdated map[string]time.Time
	now         func() time.Time
}

// NewSourceCache creates an empty cache.
func NewSourceCache() *SourceCache {
	return &SourceCache{
		entries:     make(map[string]domain.CacheEntry),
		lastUpdated: make(map[string]time.Time),
		now:         time.Now,
	}
}

// WithClock replaces the clock used to timestamp merges. Intended for tests.
func (c *SourceCache) WithClock(now func() time.Time) *SourceCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the cached repository for a source.
func (c *SourceCache) Get(sourceID string) (*domain.Repository, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[sourceID]
	if !ok {
		return nil, false
	}
	return entry.Repository, true
}

// Has reports whether a source has a cache entry.
func (c *SourceCache) Has(sourceID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[sourceID]
	return ok
}

// LastUpdated returns the time of the source's last successful fetch.
func (c *SourceCache) LastUpdated(sourceID string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.lastUpdated[sourceID]
	return t, ok
}

// Entries returns a snapshot of every entry, ordered by source ID.
func (c *SourceCache) Entries() []domain.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.CacheEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Source.ID < result[j].Source.ID
	})
	return result
}

// Len returns the number of cached entries.
func (c *SourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// MergeBatch applies one batch of outcomes atomically. Successful outcomes
// overwrite the entry and its timestamp; absent outcomes leave prior state
// untouched. Readers observe either the whole batch or none of it.
// Returns the IDs of the sources that were written.
func (c *SourceCache) MergeBatch(outcomes []domain.FetchOutcome) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var written []string
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		id := o.Source.ID
		// Timestamps never move backwards for a key.
		ts := now
		if prev, ok := c.lastUpdated[id]; ok && prev.After(ts) {
			ts = prev
		}
		c.entries[id] = domain.CacheEntry{
			Source:      o.Source,
			Repository:  o.Repository,
			LastUpdated: ts,
		}
		c.lastUpdated[id] = ts
		written = append(written, id)
	}
	return written
}

// ClearAll drops every entry and timestamp.
func (c *SourceCache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.CacheEntry)
	c.lastUpdated = make(map[string]time.Time)
}
