//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/cdlist/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DefinitionBuilder helps create test definitions with a fluent interface.
type DefinitionBuilder struct {
	*testkit.BaseBuilder
	coordinates entities.Coordinate
	license     string
	releaseDate string
	score       float64
}

// NewDefinitionBuilder creates a new definition builder for the default coordinate.
func NewDefinitionBuilder() *DefinitionBuilder {
	return &DefinitionBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		coordinates: NewCoordinateBuilder().BuildCoordinate(),
		license:     "MIT",
		releaseDate: "2021-02-20",
		score:       87,
	}
}

// WithCoordinates sets the coordinates the definition describes.
func (b *DefinitionBuilder) WithCoordinates(coordinates entities.Coordinate) *DefinitionBuilder {
	b.coordinates = coordinates
	return b
}

// WithLicense sets licensed.declared.
func (b *DefinitionBuilder) WithLicense(license string) *DefinitionBuilder {
	b.license = license
	return b
}

// WithReleaseDate sets described.releaseDate.
func (b *DefinitionBuilder) WithReleaseDate(releaseDate string) *DefinitionBuilder {
	b.releaseDate = releaseDate
	return b
}

// WithScore sets scores.effective.
func (b *DefinitionBuilder) WithScore(score float64) *DefinitionBuilder {
	b.score = score
	return b
}

// Build creates the definition (satisfies testkit.Builder interface).
func (b *DefinitionBuilder) Build() interface{} {
	return b.BuildDefinition()
}

// BuildDefinition creates the definition with a concrete return type.
func (b *DefinitionBuilder) BuildDefinition() entities.Definition {
	return entities.Definition{
		Coordinates: b.coordinates,
		Described:   map[string]any{"releaseDate": b.releaseDate},
		Licensed:    map[string]any{"declared": b.license},
		Scores:      map[string]any{"effective": b.score},
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DefinitionBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.coordinates = NewCoordinateBuilder().BuildCoordinate()
	b.license = "MIT"
	b.releaseDate = "2021-02-20"
	b.score = 87
	return b
}

// Clone creates a deep copy of the DefinitionBuilder.
func (b *DefinitionBuilder) Clone() testkit.Builder {
	return &DefinitionBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		coordinates: b.coordinates,
		license:     b.license,
		releaseDate: b.releaseDate,
		score:       b.score,
	}
}
