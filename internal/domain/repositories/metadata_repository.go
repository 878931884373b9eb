package repositories

import (
	"context"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// FetchOptions tunes the retrieval of a single definition.
type FetchOptions struct {
	ExpandPRs bool
}

// MetadataRepository abstracts the definition API. Every method returns failures as
// errors and never a partially decoded body.
type MetadataRepository interface {
	// FetchOne retrieves the definition of a single coordinate.
	FetchOne(ctx context.Context, coordinate entities.Coordinate, opts FetchOptions) (entities.Definition, error)

	// FetchMany retrieves the definitions of several canonical keys in one call,
	// keyed by canonical key. Unknown keys are omitted.
	FetchMany(ctx context.Context, keys []string) (map[string]entities.Definition, error)

	// Search returns one page of definitions matching the query.
	Search(ctx context.Context, query entities.SearchQuery) (entities.SearchResult, error)

	// Suggest returns canonical keys starting with the prefix.
	Suggest(ctx context.Context, prefix string) ([]string, error)

	// SuggestedData returns values suggested for the empty fields of a definition.
	SuggestedData(ctx context.Context, coordinate entities.Coordinate) (map[string]any, error)

	// PreviewCuration returns the definition as it would look with the patch applied.
	PreviewCuration(
		ctx context.Context,
		coordinate entities.Coordinate,
		patch map[string]any,
	) (entities.Definition, error)
}
