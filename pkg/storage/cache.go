package storage

import (
	"container/list"
	"sync"

	"github.com/Chidera261/koraDB/pkg/domain"
)

// RecordCache is a bounded id -> record cache. Eviction is first-in
// first-out by insertion order; reads do not change an entry's position.
type RecordCache struct {
	mu       sync.Mutex
	capacity int
	list     *list.List
	cache    map[string]*list.Element
}

type cacheEntry struct {
	key   string
	value domain.Record
}

func NewRecordCache(capacity int) *RecordCache {
	if capacity < 1 {
		capacity = 1
	}
	return &RecordCache{
		capacity: capacity,
		list:     list.New(),
		cache:    make(map[string]*list.Element),
	}
}

// Get returns a copy of the cached record
func (c *RecordCache) Get(id string) (domain.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.cache[id]; exists {
		return element.Value.(*cacheEntry).value.Clone(), true
	}
	return nil, false
}

// Put inserts or refreshes an entry. A refresh keeps the entry's original
// insertion position.
func (c *RecordCache) Put(id string, rec domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.cache[id]; exists {
		element.Value.(*cacheEntry).value = rec.Clone()
		return
	}

	element := c.list.PushBack(&cacheEntry{key: id, value: rec.Clone()})
	c.cache[id] = element

	if c.list.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *RecordCache) evictOldest() {
	element := c.list.Front()
	if element != nil {
		entry := element.Value.(*cacheEntry)
		delete(c.cache, entry.key)
		c.list.Remove(element)
	}
}

// Invalidate drops an entry if present
func (c *RecordCache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.cache[id]; exists {
		delete(c.cache, id)
		c.list.Remove(element)
	}
}

// Clear drops every entry
func (c *RecordCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list.Init()
	c.cache = make(map[string]*list.Element)
}

func (c *RecordCache) Capacity() int {
	return c.capacity
}

func (c *RecordCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Len()
}
