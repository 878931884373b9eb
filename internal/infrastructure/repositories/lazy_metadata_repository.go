package repositories

import (
	"context"
	"sync"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	domainRepos "github.com/rios0rios0/cdlist/internal/domain/repositories"
)

// LazyMetadataRepository builds the real repository on first use, after the command
// line has loaded the settings it depends on.
type LazyMetadataRepository struct {
	build    func() domainRepos.MetadataRepository
	once     sync.Once
	delegate domainRepos.MetadataRepository
}

// NewLazyMetadataRepository wraps a repository constructor.
func NewLazyMetadataRepository(build func() domainRepos.MetadataRepository) *LazyMetadataRepository {
	return &LazyMetadataRepository{build: build}
}

func (r *LazyMetadataRepository) get() domainRepos.MetadataRepository {
	r.once.Do(func() {
		r.delegate = r.build()
	})
	return r.delegate
}

func (r *LazyMetadataRepository) FetchOne(
	ctx context.Context,
	coordinate entities.Coordinate,
	opts domainRepos.FetchOptions,
) (entities.Definition, error) {
	return r.get().FetchOne(ctx, coordinate, opts)
}

func (r *LazyMetadataRepository) FetchMany(ctx context.Context, keys []string) (map[string]entities.Definition, error) {
	return r.get().FetchMany(ctx, keys)
}

func (r *LazyMetadataRepository) Search(
	ctx context.Context,
	query entities.SearchQuery,
) (entities.SearchResult, error) {
	return r.get().Search(ctx, query)
}

func (r *LazyMetadataRepository) Suggest(ctx context.Context, prefix string) ([]string, error) {
	return r.get().Suggest(ctx, prefix)
}

func (r *LazyMetadataRepository) SuggestedData(
	ctx context.Context,
	coordinate entities.Coordinate,
) (map[string]any, error) {
	return r.get().SuggestedData(ctx, coordinate)
}

func (r *LazyMetadataRepository) PreviewCuration(
	ctx context.Context,
	coordinate entities.Coordinate,
	patch map[string]any,
) (entities.Definition, error) {
	return r.get().PreviewCuration(ctx, coordinate, patch)
}
