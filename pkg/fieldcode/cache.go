package fieldcode

import (
	"container/list"
	"sync"
)

// classificationCache memoizes classification results by instruction text.
// Mail-merge documents repeat the same few instructions many times.
type classificationCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	lru     *list.List
	maxSize int
	hits    int
	misses  int
}

type cacheEntry struct {
	key     string
	pattern FieldPattern // nil when the instruction is unrecognized
	element *list.Element
}

func newClassificationCache(maxSize int) *classificationCache {
	return &classificationCache{
		entries: make(map[string]*cacheEntry),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Get returns the cached result for an instruction
func (c *classificationCache) Get(instruction string) (FieldPattern, bool) {
	if c == nil || c.maxSize == 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[instruction]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.lru.MoveToFront(entry.element)
	return entry.pattern, true
}

// Set stores a result, evicting the least recently used entry when full
func (c *classificationCache) Set(instruction string, pattern FieldPattern) {
	if c == nil || c.maxSize == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[instruction]; ok {
		entry.pattern = pattern
		c.lru.MoveToFront(entry.element)
		return
	}

	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			old := oldest.Value.(*cacheEntry)
			delete(c.entries, old.key)
			c.lru.Remove(oldest)
		}
	}

	entry := &cacheEntry{key: instruction, pattern: pattern}
	entry.element = c.lru.PushFront(entry)
	c.entries[instruction] = entry
}

// Len returns the number of cached instructions
func (c *classificationCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns hit and miss counts
func (c *classificationCache) Stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
