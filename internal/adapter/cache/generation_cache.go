package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"autoapply/internal/domain"
	"autoapply/internal/port"
)

// GenerationCache is an LRU cache of generation responses with a TTL.
type GenerationCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	order      []string
	maxSize    int
	ttl        time.Duration
	hits       uint64
	misses     uint64
	generation uint64
}

type cacheEntry struct {
	response   domain.GenerationResponse
	storedAt   time.Time
	generation uint64
}

// NewGenerationCache creates a cache. Non-positive arguments select defaults.
func NewGenerationCache(maxSize int, ttl time.Duration) *GenerationCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &GenerationCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Key hashes every request attribute that influences the generated text.
func Key(req domain.GenerationRequest) string {
	data, err := json.Marshal(req)
	if err != nil {
		data = []byte(req.FieldID + "\x00" + req.Question)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

func (c *GenerationCache) Get(key string) (domain.GenerationResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.misses++
		return domain.GenerationResponse{}, false
	}

	if time.Since(entry.storedAt) > c.ttl || entry.generation != c.generation {
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.misses++
		return domain.GenerationResponse{}, false
	}

	c.moveToEnd(key)
	c.hits++
	return entry.response, true
}

func (c *GenerationCache) Put(key string, resp domain.GenerationResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{response: resp, storedAt: time.Now(), generation: c.generation}
	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Invalidate drops every entry, e.g. after the knowledge bundle changes.
func (c *GenerationCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.generation++
}

func (c *GenerationCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counters.
func (c *GenerationCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *GenerationCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *GenerationCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *GenerationCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachedGenerator serves repeated requests from the cache. Requests marked
// Fresh always reach the wrapped generator and refresh the stored entry.
type CachedGenerator struct {
	generator port.Generator
	cache     *GenerationCache
}

func NewCachedGenerator(generator port.Generator, cache *GenerationCache) *CachedGenerator {
	return &CachedGenerator{generator: generator, cache: cache}
}

// Generate implements port.Generator. Failures are never cached.
func (g *CachedGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	key := Key(req)
	if !req.Fresh {
		if resp, hit := g.cache.Get(key); hit {
			return resp, nil
		}
	}

	resp, err := g.generator.Generate(ctx, req)
	if err != nil {
		return domain.GenerationResponse{}, err
	}

	g.cache.Put(key, resp)
	return resp, nil
}
