package statemap

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/expr-lang/expr/vm"
)

// DefaultCacheSize is the default maximum number of compiled programs kept
// by a Cache.
const DefaultCacheSize = 1000

// programs is shared by every Mapper and Assign compiled in the process.
var programs = NewCache(DefaultCacheSize)

// Cache is a thread-safe LRU cache of compiled expr-lang programs.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List
	maxSize int
	hits    int64
	misses  int64
}

type cacheEntry struct {
	key     string
	program *vm.Program
}

// NewCache creates a cache holding at most maxSize programs. Sizes below
// one use DefaultCacheSize.
func NewCache(maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Get returns the program cached under key, marking it most recently used.
func (c *Cache) Get(key string) (*vm.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.lru.MoveToFront(elem)
	return elem.Value.(*cacheEntry).program, true
}

// Put stores a program, evicting the least recently used entries when over
// capacity.
func (c *Cache) Put(key string, program *vm.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).program = program
		return
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, program: program})
	c.evict()
}

// Resize changes the capacity, evicting immediately if it shrinks.
func (c *Cache) Resize(maxSize int) {
	if maxSize < 1 {
		maxSize = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxSize = maxSize
	c.evict()
}

func (c *Cache) evict() {
	for c.lru.Len() > c.maxSize {
		elem := c.lru.Back()
		delete(c.entries, elem.Value.(*cacheEntry).key)
		c.lru.Remove(elem)
	}
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns the size and hit counters.
func (c *Cache) Stats() (size int, hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len(), c.hits, c.misses
}

func (c *Cache) String() string {
	size, hits, misses := c.Stats()
	return fmt.Sprintf("Cache{size=%d, hits=%d, misses=%d}", size, hits, misses)
}
