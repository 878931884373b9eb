package entities

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	pathSeparator      = "/"
	emptyNamespace     = "-"
	escapedPlaceholder = "%2D"
)

// knownTypes are the component ecosystems accepted by ValidateAndCreate,
// mapped to the provider used when an input does not name one.
//
//nolint:gochecknoglobals // read-only lookup table
var knownTypes = map[string]string{
	"composer":      "packagist",
	"conda":         "conda-forge",
	"condasrc":      "conda-forge",
	"crate":         "cratesio",
	"deb":           "debian",
	"debsrc":        "debian",
	"gem":           "rubygems",
	"git":           "github",
	"github":        "github",
	"gitlab":        "gitlab",
	"go":            "golang",
	"maven":         "mavencentral",
	"npm":           "npmjs",
	"nuget":         "nuget",
	"pod":           "cocoapods",
	"pypi":          "pypi",
	"sourcearchive": "mavencentral",
}

// Coordinate is the canonical identity of one component version.
type Coordinate struct {
	Type      string `json:"type"`
	Provider  string `json:"provider"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
	Revision  string `json:"revision,omitempty"`
}

// KnownTypes returns the accepted component types in lexical order.
func KnownTypes() []string {
	types := make([]string, 0, len(knownTypes))
	for t := range knownTypes {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// IsKnownType reports whether the given type is one of the accepted ecosystems.
func IsKnownType(componentType string) bool {
	_, ok := knownTypes[componentType]
	return ok
}

// DefaultProvider returns the usual provider for a component type, or "" when unknown.
func DefaultProvider(componentType string) string {
	return knownTypes[componentType]
}

// ToPath returns the canonical key: type/provider/namespace/name[/revision].
// An absent namespace is written as "-" and every segment is path-escaped,
// so FromPath can always split the key back into the same coordinate.
func (c Coordinate) ToPath() string {
	segments := []string{
		escapeSegment(c.Type),
		escapeSegment(c.Provider),
		escapeNamespace(c.Namespace),
		escapeSegment(c.Name),
	}
	if c.Revision != "" {
		segments = append(segments, escapeSegment(c.Revision))
	}
	return strings.Join(segments, pathSeparator)
}

func (c Coordinate) String() string { return c.ToPath() }

// IsFetchable reports whether the coordinate carries enough identity to retrieve a definition.
func (c Coordinate) IsFetchable() bool {
	return c.Name != "" && c.Revision != ""
}

// WithoutRevision returns the bare reference of the coordinate.
func (c Coordinate) WithoutRevision() Coordinate {
	c.Revision = ""
	return c
}

// FromPath splits a canonical key back into its coordinate.
func FromPath(path string) (Coordinate, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), pathSeparator)
	segments := strings.Split(trimmed, pathSeparator)
	if len(segments) != 4 && len(segments) != 5 {
		return Coordinate{}, fmt.Errorf("%w: %q has %d segments", ErrInvalidPath, path, len(segments))
	}

	values := make([]string, len(segments))
	for i, segment := range segments {
		value, err := url.PathUnescape(segment)
		if err != nil {
			return Coordinate{}, fmt.Errorf("%w: %q: %w", ErrInvalidPath, path, err)
		}
		values[i] = value
	}

	coordinate := Coordinate{
		Type:     values[0],
		Provider: values[1],
		Name:     values[3],
	}
	if segments[2] != emptyNamespace {
		coordinate.Namespace = values[2]
	}
	if len(values) == 5 {
		coordinate.Revision = values[4]
	}
	if coordinate.Type == "" || coordinate.Provider == "" || coordinate.Name == "" {
		return Coordinate{}, fmt.Errorf("%w: %q has empty required segments", ErrInvalidPath, path)
	}
	return coordinate, nil
}

// FromCoordinatesObject reads a coordinate from a decoded JSON object. The object may be
// the coordinate itself or a definition carrying it in a "coordinates" member.
// It returns false when no name is present.
func FromCoordinatesObject(object map[string]any) (Coordinate, bool) {
	if object == nil {
		return Coordinate{}, false
	}
	if nested, ok := object["coordinates"].(map[string]any); ok {
		object = nested
	}

	coordinate := Coordinate{
		Type:      stringField(object, "type"),
		Provider:  stringField(object, "provider"),
		Namespace: stringField(object, "namespace"),
		Name:      stringField(object, "name"),
		Revision:  stringField(object, "revision"),
	}
	if coordinate.Namespace == emptyNamespace {
		coordinate.Namespace = ""
	}
	if coordinate.Name == "" {
		return Coordinate{}, false
	}
	return coordinate, true
}

// ValidateAndCreate turns any raw coordinate shape (a Coordinate, a pointer to one,
// a decoded JSON object, a canonical path, or a raw JSON document) into a valid
// coordinate. Invalid input yields false, never an error, so batches can be filtered.
func ValidateAndCreate(candidate any) (Coordinate, bool) {
	var (
		coordinate Coordinate
		ok         bool
	)

	switch value := candidate.(type) {
	case Coordinate:
		coordinate, ok = value, true
	case *Coordinate:
		if value != nil {
			coordinate, ok = *value, true
		}
	case map[string]any:
		coordinate, ok = FromCoordinatesObject(value)
	case string:
		coordinate, ok = coordinateFromText(value)
	case json.RawMessage:
		coordinate, ok = coordinateFromText(string(value))
	}

	if !ok || !coordinate.valid() {
		return Coordinate{}, false
	}
	return coordinate, true
}

func (c Coordinate) valid() bool {
	return IsKnownType(c.Type) && strings.TrimSpace(c.Provider) != "" && strings.TrimSpace(c.Name) != ""
}

func coordinateFromText(text string) (Coordinate, bool) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		var object map[string]any
		if err := json.Unmarshal([]byte(trimmed), &object); err != nil {
			return Coordinate{}, false
		}
		return FromCoordinatesObject(object)
	}
	coordinate, err := FromPath(trimmed)
	return coordinate, err == nil
}

func stringField(object map[string]any, key string) string {
	switch value := object[key].(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	default:
		return ""
	}
}

func escapeSegment(value string) string {
	return url.PathEscape(value)
}

func escapeNamespace(namespace string) string {
	switch namespace {
	case "":
		return emptyNamespace
	case emptyNamespace:
		return escapedPlaceholder
	default:
		return escapeSegment(namespace)
	}
}
