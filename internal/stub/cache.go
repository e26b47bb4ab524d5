package stub

import "sync"

// DefaultCacheSize is how many leaf predictions the stub remembers.
const DefaultCacheSize = 1000

type leafPrediction struct {
	class      string
	confidence float64
}

// leafCache maps image hashes to predictions. When full, the oldest entry
// is evicted first.
type leafCache struct {
	mu      sync.Mutex
	max     int
	order   []string
	entries map[string]leafPrediction
}

func newLeafCache(max int) *leafCache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &leafCache{max: max, entries: make(map[string]leafPrediction, max)}
}

func (c *leafCache) get(hash string) (leafPrediction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[hash]
	return p, ok
}

func (c *leafCache) put(hash string, p leafPrediction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[hash]; ok {
		c.entries[hash] = p
		return
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, hash)
	c.entries[hash] = p
}

func (c *leafCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
