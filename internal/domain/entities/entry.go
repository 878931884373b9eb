package entities

import "maps"

// Entry is one row of the working list: a coordinate plus presentational flags
// and the local edits that have not been contributed yet.
type Entry struct {
	Coordinate
	Expanded bool           `json:"expanded,omitempty"`
	Selected bool           `json:"selected,omitempty"`
	Changes  map[string]any `json:"changes,omitempty"`
}

// NewEntry wraps a coordinate in a clean entry.
func NewEntry(coordinate Coordinate) Entry {
	return Entry{Coordinate: coordinate}
}

// Key returns the canonical key of the entry's coordinate.
func (e Entry) Key() string { return e.ToPath() }

// HasChanges reports whether the entry carries local edits.
func (e Entry) HasChanges() bool { return len(e.Changes) > 0 }

func (e Entry) clone() Entry {
	e.Changes = maps.Clone(e.Changes)
	return e
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		out[i] = entry.clone()
	}
	return out
}
