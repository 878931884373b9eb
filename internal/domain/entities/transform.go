package entities

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

const anyValue = "*"

// Filter maps a field (coordinate field, definition path, or alias) to the value an
// entry must carry to stay in the view. The value "*" only requires the field to be set.
type Filter map[string]string

// SortBy selects the field ordering the view.
type SortBy struct {
	Field      string `json:"field,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

// ValueResolver looks up definition data for an entry, typically backed by the DefinitionCache.
type ValueResolver interface {
	Resolve(coordinate Coordinate, field string) (any, bool)
}

//nolint:gochecknoglobals // read-only lookup table
var fieldAliases = map[string]string{
	"license":     "licensed.declared",
	"releaseDate": "described.releaseDate",
	"score":       "scores.effective",
}

// Matches reports whether the entry satisfies every filter term.
func (f Filter) Matches(entry Entry, resolver ValueResolver) bool {
	for field, want := range f {
		got, ok := fieldValue(entry, field, resolver)
		if !ok || got == "" {
			return false
		}
		if want != anyValue && !strings.EqualFold(got, want) {
			return false
		}
	}
	return true
}

// applyTransform filters then stable-sorts a copy of entries. The input is never
// modified, so applying the same transform again yields the same view.
func applyTransform(entries []Entry, sortBy *SortBy, filter Filter, resolver ValueResolver) []Entry {
	view := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if filter.Matches(entry, resolver) {
			view = append(view, entry.clone())
		}
	}
	if sortBy == nil || sortBy.Field == "" {
		return view
	}

	slices.SortStableFunc(view, func(a, b Entry) int {
		left, leftOK := fieldValue(a, sortBy.Field, resolver)
		right, rightOK := fieldValue(b, sortBy.Field, resolver)
		switch {
		case !leftOK && !rightOK:
			return 0
		case !leftOK:
			return 1
		case !rightOK:
			return -1
		}
		result := compareValues(left, right)
		if sortBy.Descending {
			return -result
		}
		return result
	})
	return view
}

// fieldValue resolves a field for an entry: local edits first, then the coordinate,
// then the cached definition.
func fieldValue(entry Entry, field string, resolver ValueResolver) (string, bool) {
	if alias, ok := fieldAliases[field]; ok {
		field = alias
	}
	if value, ok := entry.Changes[field]; ok {
		return formatValue(value), true
	}
	if value, ok := coordinateField(entry.Coordinate, field); ok {
		return formatValue(value), true
	}
	if resolver == nil {
		return "", false
	}
	value, ok := resolver.Resolve(entry.Coordinate, field)
	if !ok || value == nil {
		return "", false
	}
	return formatValue(value), true
}

// compareValues orders semantic versions by precedence, numbers numerically and
// everything else lexically.
func compareValues(left, right string) int {
	leftVersion, rightVersion := canonicalVersion(left), canonicalVersion(right)
	if semver.IsValid(leftVersion) && semver.IsValid(rightVersion) {
		if result := semver.Compare(leftVersion, rightVersion); result != 0 {
			return result
		}
		return strings.Compare(left, right)
	}

	leftNumber, leftErr := strconv.ParseFloat(left, 64)
	rightNumber, rightErr := strconv.ParseFloat(right, 64)
	if leftErr == nil && rightErr == nil {
		switch {
		case leftNumber < rightNumber:
			return -1
		case leftNumber > rightNumber:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(left), strings.ToLower(right))
}

func canonicalVersion(value string) string {
	if strings.HasPrefix(value, "v") {
		return value
	}
	return "v" + value
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case bool:
		return strconv.FormatBool(typed)
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}
