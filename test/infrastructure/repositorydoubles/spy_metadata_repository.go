//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/domain/repositories"
)

// SpyMetadataRepository implements repositories.MetadataRepository as a configurable spy.
type SpyMetadataRepository struct {
	mu sync.Mutex

	// Entered receives one value each time FetchOne or FetchMany is entered; when Hold
	// is set, the call then blocks until Hold is closed.
	Entered chan struct{}
	Hold    chan struct{}

	// --- FetchOne ---
	Definition  entities.Definition
	FetchOneErr error
	FetchedOne  []entities.Coordinate
	FetchedOpts []repositories.FetchOptions

	// --- FetchMany ---
	Bodies       map[string]entities.Definition
	FetchManyErr error
	FetchedMany  [][]string

	// --- Search ---
	Pages     map[string]entities.SearchResult // continuation token -> page
	SearchErr error
	Queries   []entities.SearchQuery

	// --- Suggest ---
	Suggestions []string
	SuggestErr  error
	Prefixes    []string

	// --- SuggestedData ---
	Suggested        map[string]any
	SuggestedDataErr error

	// --- PreviewCuration ---
	Preview    entities.Definition
	PreviewErr error
	Patches    []map[string]any
}

var _ repositories.MetadataRepository = (*SpyMetadataRepository)(nil)

func (r *SpyMetadataRepository) FetchOne(
	_ context.Context,
	coordinate entities.Coordinate,
	opts repositories.FetchOptions,
) (entities.Definition, error) {
	r.mu.Lock()
	r.FetchedOne = append(r.FetchedOne, coordinate)
	r.FetchedOpts = append(r.FetchedOpts, opts)
	r.mu.Unlock()
	r.block()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FetchOneErr != nil {
		return entities.Definition{}, r.FetchOneErr
	}
	definition := r.Definition
	if definition.Coordinates.Name == "" {
		definition.Coordinates = coordinate
	}
	return definition, nil
}

// FetchMany returns the configured bodies of the requested keys only.
func (r *SpyMetadataRepository) FetchMany(_ context.Context, keys []string) (map[string]entities.Definition, error) {
	r.mu.Lock()
	r.FetchedMany = append(r.FetchedMany, append([]string(nil), keys...))
	r.mu.Unlock()
	r.block()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FetchManyErr != nil {
		return nil, r.FetchManyErr
	}
	result := make(map[string]entities.Definition, len(keys))
	for _, key := range keys {
		if body, ok := r.Bodies[key]; ok {
			result[key] = body
		}
	}
	return result, nil
}

func (r *SpyMetadataRepository) Search(
	_ context.Context,
	query entities.SearchQuery,
) (entities.SearchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Queries = append(r.Queries, query)
	if r.SearchErr != nil {
		return entities.SearchResult{}, r.SearchErr
	}
	return r.Pages[query.ContinuationToken], nil
}

func (r *SpyMetadataRepository) Suggest(_ context.Context, prefix string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Prefixes = append(r.Prefixes, prefix)
	return r.Suggestions, r.SuggestErr
}

func (r *SpyMetadataRepository) SuggestedData(_ context.Context, _ entities.Coordinate) (map[string]any, error) {
	return r.Suggested, r.SuggestedDataErr
}

func (r *SpyMetadataRepository) PreviewCuration(
	_ context.Context,
	_ entities.Coordinate,
	patch map[string]any,
) (entities.Definition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Patches = append(r.Patches, patch)
	return r.Preview, r.PreviewErr
}

// FetchManyCalls returns how many batch requests were issued.
func (r *SpyMetadataRepository) FetchManyCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.FetchedMany)
}

// FetchOneCalls returns how many single fetches were issued.
func (r *SpyMetadataRepository) FetchOneCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.FetchedOne)
}

func (r *SpyMetadataRepository) block() {
	if r.Entered != nil {
		r.Entered <- struct{}{}
	}
	if r.Hold != nil {
		<-r.Hold
	}
}
