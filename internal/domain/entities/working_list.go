package entities

import (
	"maps"
	"sync"
)

// WorkingList is the ordered, key-unique set of entries the user is working on,
// together with the active filter and sort and the view derived from them.
// Every mutation recomputes the view and publishes EventListChanged.
type WorkingList struct {
	mu                sync.RWMutex
	entries           []Entry
	index             map[string]int
	filter            Filter
	sortBy            *SortBy
	view              []Entry
	continuationToken string
	resolver          ValueResolver
	bus               *Bus
}

// NewWorkingList creates an empty list. The resolver provides definition data to
// filters and sorts and may be nil.
func NewWorkingList(resolver ValueResolver, bus *Bus) *WorkingList {
	return &WorkingList{
		index:    make(map[string]int),
		resolver: resolver,
		bus:      bus,
	}
}

// Add appends the coordinate unless its key is already present. An existing entry
// keeps its position. It reports whether the list changed.
func (l *WorkingList) Add(coordinate Coordinate) bool {
	return l.AddAll([]Coordinate{coordinate}) > 0
}

// AddAll appends every coordinate whose key is new, preserving input order.
// It is used for pagination continuation and returns the number of entries added.
func (l *WorkingList) AddAll(coordinates []Coordinate) int {
	l.mu.Lock()
	added := make([]string, 0, len(coordinates))
	for _, coordinate := range coordinates {
		key := coordinate.ToPath()
		if _, exists := l.index[key]; exists {
			continue
		}
		l.index[key] = len(l.entries)
		l.entries = append(l.entries, NewEntry(coordinate))
		added = append(added, key)
	}
	if len(added) > 0 {
		l.refreshLocked()
	}
	l.mu.Unlock()

	if len(added) > 0 {
		l.publish(added)
	}
	return len(added)
}

// UpdateAll replaces the whole list with the given coordinates, keeping the first
// occurrence of duplicated keys. Used for a fresh search or a fresh list load.
func (l *WorkingList) UpdateAll(coordinates []Coordinate) {
	entries := make([]Entry, len(coordinates))
	for i, coordinate := range coordinates {
		entries[i] = NewEntry(coordinate)
	}
	l.UpdateEntries(entries)
}

// UpdateEntries replaces the whole list with the given entries, keeping their flags
// and local edits.
func (l *WorkingList) UpdateEntries(entries []Entry) {
	l.mu.Lock()
	l.entries = make([]Entry, 0, len(entries))
	l.index = make(map[string]int, len(entries))
	for _, entry := range entries {
		key := entry.Key()
		if _, exists := l.index[key]; exists {
			continue
		}
		l.index[key] = len(l.entries)
		l.entries = append(l.entries, entry.clone())
	}
	l.refreshLocked()
	keys := l.keysLocked()
	l.mu.Unlock()

	l.publish(keys)
}

// Remove deletes the entry with the given key and reports whether it existed.
func (l *WorkingList) Remove(key string) bool {
	l.mu.Lock()
	position, ok := l.index[key]
	if ok {
		l.entries = append(l.entries[:position], l.entries[position+1:]...)
		l.reindexLocked()
		l.refreshLocked()
	}
	l.mu.Unlock()

	if ok {
		l.publish([]string{key})
	}
	return ok
}

// RemoveAll empties the list and drops the continuation token.
func (l *WorkingList) RemoveAll() {
	l.mu.Lock()
	keys := l.keysLocked()
	l.entries = nil
	l.index = make(map[string]int)
	l.continuationToken = ""
	l.refreshLocked()
	l.mu.Unlock()

	l.publish(keys)
}

// Change records a local edit of one field of the entry with the given key.
func (l *WorkingList) Change(key, field string, value any) bool {
	l.mu.Lock()
	position, ok := l.index[key]
	if ok {
		entry := l.entries[position].clone()
		if entry.Changes == nil {
			entry.Changes = make(map[string]any)
		}
		entry.Changes[field] = value
		l.entries[position] = entry
		l.refreshLocked()
	}
	l.mu.Unlock()

	if ok {
		l.publish([]string{key})
	}
	return ok
}

// SetFlags updates the presentational flags of an entry.
func (l *WorkingList) SetFlags(key string, expanded, selected bool) bool {
	l.mu.Lock()
	position, ok := l.index[key]
	if ok {
		l.entries[position].Expanded = expanded
		l.entries[position].Selected = selected
		l.refreshLocked()
	}
	l.mu.Unlock()

	if ok {
		l.publish([]string{key})
	}
	return ok
}

// Transform sets the active sort and filter and recomputes the view.
// Applying the same sort and filter twice yields the same view.
func (l *WorkingList) Transform(sortBy *SortBy, filter Filter) {
	l.mu.Lock()
	if sortBy != nil {
		sorted := *sortBy
		l.sortBy = &sorted
	} else {
		l.sortBy = nil
	}
	l.filter = maps.Clone(filter)
	l.refreshLocked()
	l.mu.Unlock()

	l.publish(nil)
}

// Refresh recomputes the view, e.g. after the definitions it sorts on changed.
func (l *WorkingList) Refresh() {
	l.mu.Lock()
	l.refreshLocked()
	l.mu.Unlock()
}

// Entries returns a copy of the entries in list order.
func (l *WorkingList) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneEntries(l.entries)
}

// View returns a copy of the filtered and sorted entries.
func (l *WorkingList) View() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneEntries(l.view)
}

// Keys returns the canonical keys in list order.
func (l *WorkingList) Keys() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.keysLocked()
}

// Get returns the entry stored under the key.
func (l *WorkingList) Get(key string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	position, ok := l.index[key]
	if !ok {
		return Entry{}, false
	}
	return l.entries[position].clone(), true
}

// Contains reports whether the key is present.
func (l *WorkingList) Contains(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.index[key]
	return ok
}

// Len returns the number of entries.
func (l *WorkingList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// HasChanges reports whether any entry carries local edits.
func (l *WorkingList) HasChanges() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, entry := range l.entries {
		if entry.HasChanges() {
			return true
		}
	}
	return false
}

// Filter returns the active filter.
func (l *WorkingList) Filter() Filter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.filter)
}

// SortBy returns the active sort, or nil.
func (l *WorkingList) SortBy() *SortBy {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.sortBy == nil {
		return nil
	}
	sorted := *l.sortBy
	return &sorted
}

// ContinuationToken returns the pagination cursor of the last search page.
func (l *WorkingList) ContinuationToken() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.continuationToken
}

// SetContinuationToken stores the pagination cursor returned by a search.
func (l *WorkingList) SetContinuationToken(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.continuationToken = token
}

func (l *WorkingList) refreshLocked() {
	l.view = applyTransform(l.entries, l.sortBy, l.filter, l.resolver)
}

func (l *WorkingList) reindexLocked() {
	l.index = make(map[string]int, len(l.entries))
	for i, entry := range l.entries {
		l.index[entry.Key()] = i
	}
}

func (l *WorkingList) keysLocked() []string {
	keys := make([]string, len(l.entries))
	for i, entry := range l.entries {
		keys[i] = entry.Key()
	}
	return keys
}

func (l *WorkingList) publish(keys []string) {
	l.bus.Publish(Event{Kind: EventListChanged, Keys: keys})
}
