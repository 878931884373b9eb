//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// SpyDefinitionsCommand is a spy implementation of commands.Definitions.
type SpyDefinitionsCommand struct {
	Definition entities.Definition
	FetchErr   error
	Fetched    []entities.Coordinate

	BulkErr     error
	BulkKeys    [][]string
	RefreshKeys [][]string
	Reverts     int

	SearchResult entities.SearchResult
	SearchErr    error
	Queries      []entities.SearchQuery

	Suggestions []string
}

var _ commands.Definitions = (*SpyDefinitionsCommand)(nil)

func (s *SpyDefinitionsCommand) FetchDefinition(
	_ context.Context,
	coordinate entities.Coordinate,
) (entities.Definition, error) {
	s.Fetched = append(s.Fetched, coordinate)
	return s.Definition, s.FetchErr
}

func (s *SpyDefinitionsCommand) BulkFetch(_ context.Context, keys []string) (map[string]entities.Definition, error) {
	s.BulkKeys = append(s.BulkKeys, keys)
	if s.BulkErr != nil {
		return nil, s.BulkErr
	}
	return map[string]entities.Definition{}, nil
}

func (s *SpyDefinitionsCommand) Pending(_ []string) int {
	return 0
}

func (s *SpyDefinitionsCommand) Refresh(_ context.Context, keys []string) (map[string]entities.Definition, error) {
	s.RefreshKeys = append(s.RefreshKeys, keys)
	return map[string]entities.Definition{}, s.BulkErr
}

func (s *SpyDefinitionsCommand) Suggest(_ context.Context, _ string) ([]string, error) {
	return s.Suggestions, nil
}

func (s *SpyDefinitionsCommand) SuggestedData(_ context.Context, _ entities.Coordinate) (map[string]any, error) {
	return map[string]any{}, nil
}

func (s *SpyDefinitionsCommand) PreviewCuration(
	_ context.Context,
	_ entities.Coordinate,
	_ map[string]any,
) (entities.Definition, error) {
	return s.Definition, nil
}

func (s *SpyDefinitionsCommand) ResetPreview() {}

func (s *SpyDefinitionsCommand) Revert(_ *entities.Coordinate, _ []string) entities.RevertResult {
	s.Reverts++
	return entities.RevertResult{}
}

func (s *SpyDefinitionsCommand) Browse(
	_ context.Context,
	query entities.SearchQuery,
) (entities.SearchResult, error) {
	s.Queries = append(s.Queries, query)
	return s.SearchResult, s.SearchErr
}
