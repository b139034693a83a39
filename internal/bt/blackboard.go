// Package bt holds the state shared between an agent's behavior tree and
// the code that plans for it.
//
// The behavior trees themselves are github.com/joeycumines/go-behaviortree
// nodes; importers usually alias this package as btmod.
package bt

import (
	"log/slog"
	"sync"
)

// Blackboard provides a thread-safe key-value store for agent state.
//
// Usage: Create with new(Blackboard). The internal map is lazily initialized
// on the first write operation via the init() method.
type Blackboard struct {
	mu   sync.RWMutex
	data map[string]any
}

// init initializes the blackboard's internal map if needed.
// Called automatically on write operations, with mu held.
func (b *Blackboard) init() {
	if b.data == nil {
		b.data = make(map[string]any)
	}
}

// Get retrieves a value from the blackboard.
// Returns nil if the key doesn't exist.
func (b *Blackboard) Get(key string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil
	}
	return b.data[key]
}

// GetBool returns the value for key if it is a bool, and false otherwise.
func (b *Blackboard) GetBool(key string) bool {
	v, _ := b.Get(key).(bool)
	return v
}

// Set stores a value in the blackboard.
func (b *Blackboard) Set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	b.data[key] = value
	slog.Debug("[Blackboard] set", "key", key, "value", value)
}

// Merge stores every entry of values in a single write.
func (b *Blackboard) Merge(values map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	for k, v := range values {
		b.data[k] = v
	}
}

// Update runs fn with exclusive access to the underlying map, for
// read-modify-write sequences that must not interleave with other writers.
// fn must not retain the map or call back into the blackboard.
func (b *Blackboard) Update(fn func(data map[string]any) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	return fn(b.data)
}

// Has returns true if the key exists in the blackboard.
func (b *Blackboard) Has(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return false
	}
	_, ok := b.data[key]
	return ok
}

// Len returns the number of keys in the blackboard.
func (b *Blackboard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return 0
	}
	return len(b.data)
}

// Snapshot returns a shallow copy of the blackboard data.
//
// WARNING: This is a SHALLOW copy. Mutable values (slices, maps, pointers)
// are shared with the blackboard.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil
	}
	result := make(map[string]any, len(b.data))
	for k, v := range b.data {
		result[k] = v
	}
	return result
}
