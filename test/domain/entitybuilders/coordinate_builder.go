//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/cdlist/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// CoordinateBuilder helps create test coordinates with a fluent interface.
type CoordinateBuilder struct {
	*testkit.BaseBuilder
	componentType string
	provider      string
	namespace     string
	name          string
	revision      string
}

// NewCoordinateBuilder creates a new coordinate builder defaulting to npm/npmjs/-/lodash/4.17.21.
func NewCoordinateBuilder() *CoordinateBuilder {
	return &CoordinateBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		componentType: "npm",
		provider:      "npmjs",
		name:          "lodash",
		revision:      "4.17.21",
	}
}

// WithType sets the component type.
func (b *CoordinateBuilder) WithType(componentType string) *CoordinateBuilder {
	b.componentType = componentType
	return b
}

// WithProvider sets the provider.
func (b *CoordinateBuilder) WithProvider(provider string) *CoordinateBuilder {
	b.provider = provider
	return b
}

// WithNamespace sets the namespace.
func (b *CoordinateBuilder) WithNamespace(namespace string) *CoordinateBuilder {
	b.namespace = namespace
	return b
}

// WithName sets the name.
func (b *CoordinateBuilder) WithName(name string) *CoordinateBuilder {
	b.name = name
	return b
}

// WithRevision sets the revision.
func (b *CoordinateBuilder) WithRevision(revision string) *CoordinateBuilder {
	b.revision = revision
	return b
}

// WithoutRevision clears the revision.
func (b *CoordinateBuilder) WithoutRevision() *CoordinateBuilder {
	b.revision = ""
	return b
}

// Build creates the coordinate (satisfies testkit.Builder interface).
func (b *CoordinateBuilder) Build() interface{} {
	return b.BuildCoordinate()
}

// BuildCoordinate creates the coordinate with a concrete return type.
func (b *CoordinateBuilder) BuildCoordinate() entities.Coordinate {
	return entities.Coordinate{
		Type:      b.componentType,
		Provider:  b.provider,
		Namespace: b.namespace,
		Name:      b.name,
		Revision:  b.revision,
	}
}

// BuildPath creates the canonical key of the coordinate.
func (b *CoordinateBuilder) BuildPath() string {
	return b.BuildCoordinate().ToPath()
}

// Reset clears the builder state, allowing it to be reused.
func (b *CoordinateBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.componentType = "npm"
	b.provider = "npmjs"
	b.namespace = ""
	b.name = "lodash"
	b.revision = "4.17.21"
	return b
}

// Clone creates a deep copy of the CoordinateBuilder.
func (b *CoordinateBuilder) Clone() testkit.Builder {
	return &CoordinateBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		componentType: b.componentType,
		provider:      b.provider,
		namespace:     b.namespace,
		name:          b.name,
		revision:      b.revision,
	}
}
