package entities

import (
	"maps"
	"slices"
	"sync"
)

// DefinitionCache maps canonical keys to the last successfully fetched definition.
// It only grows through MergeAdd; entries live until Reset.
type DefinitionCache struct {
	mu     sync.RWMutex
	bodies map[string]Definition
	bus    *Bus
}

// RevertResult is the list after a revert plus the keys that are no longer dirty.
type RevertResult struct {
	Entries []Entry
	Cleaned []string
}

// NewDefinitionCache creates an empty cache publishing EventCacheChanged on the bus.
func NewDefinitionCache(bus *Bus) *DefinitionCache {
	return &DefinitionCache{bodies: make(map[string]Definition), bus: bus}
}

// Get returns the cached definition for the key.
func (c *DefinitionCache) Get(key string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.bodies[key]
	return body, ok
}

// Has reports whether the key is cached.
func (c *DefinitionCache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// MergeAdd inserts every given definition, overwriting existing keys with the newer
// payload. Keys not named in the payload are left untouched.
func (c *DefinitionCache) MergeAdd(bodies map[string]Definition) {
	if len(bodies) == 0 {
		return
	}
	c.mu.Lock()
	for key, body := range bodies {
		c.bodies[key] = body
	}
	c.mu.Unlock()

	keys := slices.Sorted(maps.Keys(bodies))
	c.bus.Publish(Event{Kind: EventCacheChanged, Keys: keys})
}

// Missing returns, in input order and without duplicates, the keys not yet cached.
func (c *DefinitionCache) Missing(keys []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{}, len(keys))
	missing := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := c.bodies[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Keys returns the cached keys in lexical order.
func (c *DefinitionCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.bodies))
}

// Len returns the number of cached definitions.
func (c *DefinitionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bodies)
}

// Reset drops every cached definition.
func (c *DefinitionCache) Reset() {
	c.mu.Lock()
	keys := slices.Sorted(maps.Keys(c.bodies))
	c.bodies = make(map[string]Definition)
	c.mu.Unlock()

	c.bus.Publish(Event{Kind: EventCacheChanged, Keys: keys})
}

// Resolve implements ValueResolver against the cached definition of the coordinate.
func (c *DefinitionCache) Resolve(coordinate Coordinate, field string) (any, bool) {
	body, ok := c.Get(coordinate.ToPath())
	if !ok {
		return nil, false
	}
	return body.Value(field)
}

// Revert discards local edits. With a nil target every edit of every entry is dropped;
// otherwise only the target's edits of the given fields (all of them when fields is empty).
// Any remaining edit equal to the committed value of the cached definition is dropped
// as well, since it is indistinguishable from no change. Nothing is fetched.
func (c *DefinitionCache) Revert(entries []Entry, target *Coordinate, fields []string) RevertResult {
	targetKey := ""
	if target != nil {
		targetKey = target.ToPath()
	}

	result := RevertResult{Entries: make([]Entry, 0, len(entries))}
	for _, original := range entries {
		entry := original.clone()
		wasDirty := entry.HasChanges()

		switch {
		case target == nil:
			entry.Changes = nil
		case entry.Key() == targetKey && len(fields) == 0:
			entry.Changes = nil
		case entry.Key() == targetKey:
			for _, field := range fields {
				delete(entry.Changes, field)
			}
		}
		c.dropCommitted(&entry)
		if len(entry.Changes) == 0 {
			entry.Changes = nil
		}

		if wasDirty && !entry.HasChanges() {
			result.Cleaned = append(result.Cleaned, entry.Key())
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

func (c *DefinitionCache) dropCommitted(entry *Entry) {
	if len(entry.Changes) == 0 {
		return
	}
	body, ok := c.Get(entry.Key())
	if !ok {
		return
	}
	for field, value := range entry.Changes {
		committed, found := body.Value(field)
		if found && formatValue(committed) == formatValue(value) {
			delete(entry.Changes, field)
		}
	}
}
