package entities

import (
	"strings"
)

// Definition is the metadata body fetched for one coordinate. Each successful fetch
// yields a fresh snapshot that replaces the previous one wholesale.
type Definition struct {
	Coordinates Coordinate       `json:"coordinates"`
	Described   map[string]any   `json:"described,omitempty"`
	Licensed    map[string]any   `json:"licensed,omitempty"`
	Files       []map[string]any `json:"files,omitempty"`
	Scores      map[string]any   `json:"scores,omitempty"`
}

// Value resolves a dotted field path such as "licensed.declared" or
// "described.releaseDate" against the definition.
func (d Definition) Value(path string) (any, bool) {
	section, rest, _ := strings.Cut(path, ".")
	var root map[string]any
	switch section {
	case "coordinates":
		return coordinateField(d.Coordinates, rest)
	case "described":
		root = d.Described
	case "licensed":
		root = d.Licensed
	case "scores":
		root = d.Scores
	default:
		return nil, false
	}
	if rest == "" {
		return root, root != nil
	}
	return lookupPath(root, rest)
}

// SearchQuery describes one page of a definition search.
type SearchQuery struct {
	Pattern           string
	Type              string
	Provider          string
	License           string
	Sort              string
	SortDesc          bool
	ContinuationToken string
}

// SearchResult is one page of definitions plus the cursor for the next page.
type SearchResult struct {
	Data              []Definition `json:"data"`
	ContinuationToken string       `json:"continuationToken,omitempty"`
}

func lookupPath(root map[string]any, path string) (any, bool) {
	current := any(root)
	for _, key := range strings.Split(path, ".") {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = object[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func coordinateField(c Coordinate, field string) (any, bool) {
	switch field {
	case "type":
		return c.Type, true
	case "provider":
		return c.Provider, true
	case "namespace":
		return c.Namespace, c.Namespace != ""
	case "name":
		return c.Name, true
	case "revision":
		return c.Revision, c.Revision != ""
	default:
		return nil, false
	}
}
