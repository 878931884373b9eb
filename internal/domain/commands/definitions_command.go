package commands

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/domain/repositories"
)

const fallbackMemoSize = 256

// Definitions is the interface for the definition retrieval operations.
type Definitions interface {
	FetchDefinition(ctx context.Context, coordinate entities.Coordinate) (entities.Definition, error)
	BulkFetch(ctx context.Context, keys []string) (map[string]entities.Definition, error)
	Pending(keys []string) int
	Refresh(ctx context.Context, keys []string) (map[string]entities.Definition, error)
	Suggest(ctx context.Context, prefix string) ([]string, error)
	SuggestedData(ctx context.Context, coordinate entities.Coordinate) (map[string]any, error)
	PreviewCuration(ctx context.Context, coordinate entities.Coordinate, patch map[string]any) (entities.Definition, error)
	ResetPreview()
	Revert(target *entities.Coordinate, fields []string) entities.RevertResult
	Browse(ctx context.Context, query entities.SearchQuery) (entities.SearchResult, error)
}

// DefinitionsCommand fetches definitions through the metadata repository and keeps
// the workspace cache and list in sync with the results.
type DefinitionsCommand struct {
	workspace *entities.Workspace
	metadata  repositories.MetadataRepository
	settings  *entities.Settings
	group     singleflight.Group

	memoOnce    sync.Once
	suggestions *lru.Cache[string, []string]

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewDefinitionsCommand creates a new DefinitionsCommand.
func NewDefinitionsCommand(
	workspace *entities.Workspace,
	metadata repositories.MetadataRepository,
	settings *entities.Settings,
) *DefinitionsCommand {
	return &DefinitionsCommand{
		workspace: workspace,
		metadata:  metadata,
		settings:  settings,
		inFlight:  make(map[string]struct{}),
	}
}

// FetchDefinition retrieves one definition with its pull requests expanded and merges
// it into the cache. Concurrent calls for the same key share one request.
func (it *DefinitionsCommand) FetchDefinition(
	ctx context.Context,
	coordinate entities.Coordinate,
) (entities.Definition, error) {
	key := coordinate.ToPath()
	if !coordinate.IsFetchable() {
		return entities.Definition{}, fmt.Errorf("%s: %w", key, entities.ErrMissingRevision)
	}

	value, err, _ := it.group.Do(key, func() (any, error) {
		return Track(ctx, it.workspace.Tracker, OpDefinition,
			func(ctx context.Context) (entities.Definition, error) {
				return it.metadata.FetchOne(ctx, coordinate, repositories.FetchOptions{ExpandPRs: true})
			})
	})
	if err != nil {
		return entities.Definition{}, err
	}

	definition, _ := value.(entities.Definition)
	it.applyDefinitions(Update[entities.Definition]{Add: map[string]entities.Definition{key: definition}})
	return definition, nil
}

// BulkFetch retrieves, in one request, the definitions of the keys that are neither
// cached nor already being fetched when the call is issued. A completion that lands
// after another one for the same key overwrites it.
func (it *DefinitionsCommand) BulkFetch(ctx context.Context, keys []string) (map[string]entities.Definition, error) {
	claimed := it.claim(it.workspace.Cache.Missing(keys))
	if len(claimed) == 0 {
		return map[string]entities.Definition{}, nil
	}
	defer it.release(claimed)

	return it.fetchMany(ctx, claimed)
}

// Refresh re-fetches the given keys whether or not they are cached.
func (it *DefinitionsCommand) Refresh(ctx context.Context, keys []string) (map[string]entities.Definition, error) {
	if len(keys) == 0 {
		return map[string]entities.Definition{}, nil
	}
	return it.fetchMany(ctx, keys)
}

func (it *DefinitionsCommand) fetchMany(ctx context.Context, keys []string) (map[string]entities.Definition, error) {
	update, err := Track(ctx, it.workspace.Tracker, OpDefinitionBodies,
		func(ctx context.Context) (Update[entities.Definition], error) {
			bodies, fetchErr := it.metadata.FetchMany(ctx, keys)
			if fetchErr != nil {
				return Update[entities.Definition]{}, fetchErr
			}
			return Update[entities.Definition]{Add: bodies}, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %d definitions: %w", len(keys), err)
	}

	it.applyDefinitions(update)
	logger.Debugf("Fetched %d of %d requested definitions", len(update.Add), len(keys))
	return update.Add, nil
}

// Suggest returns canonical keys completing the prefix. Results are memoized per prefix.
func (it *DefinitionsCommand) Suggest(ctx context.Context, prefix string) ([]string, error) {
	if prefix == "" {
		return nil, nil
	}
	memo := it.memo()
	if cached, ok := memo.Get(prefix); ok {
		return cached, nil
	}

	suggestions, err := Track(ctx, it.workspace.Tracker, OpDefinitionSuggestions,
		func(ctx context.Context) ([]string, error) {
			return it.metadata.Suggest(ctx, prefix)
		})
	if err != nil {
		return nil, err
	}
	memo.Add(prefix, suggestions)
	return suggestions, nil
}

// memo returns the bounded suggestion memo, sized from the loaded settings.
func (it *DefinitionsCommand) memo() *lru.Cache[string, []string] {
	it.memoOnce.Do(func() {
		cache, err := lru.New[string, []string](it.settings.Suggestions.CacheSize)
		if err != nil {
			logger.Warnf("Invalid suggestions.cache_size %d, using %d: %v",
				it.settings.Suggestions.CacheSize, fallbackMemoSize, err)
			cache, _ = lru.New[string, []string](fallbackMemoSize)
		}
		it.suggestions = cache
	})
	return it.suggestions
}

// SuggestedData returns values the API suggests for the coordinate's empty fields.
func (it *DefinitionsCommand) SuggestedData(
	ctx context.Context,
	coordinate entities.Coordinate,
) (map[string]any, error) {
	return Track(ctx, it.workspace.Tracker, OpDefinitionSuggestedData,
		func(ctx context.Context) (map[string]any, error) {
			return it.metadata.SuggestedData(ctx, coordinate)
		})
}

// PreviewCuration returns the definition as it would look with the patch applied.
// Previews are never cached.
func (it *DefinitionsCommand) PreviewCuration(
	ctx context.Context,
	coordinate entities.Coordinate,
	patch map[string]any,
) (entities.Definition, error) {
	return Track(ctx, it.workspace.Tracker, OpDefinitionPreview,
		func(ctx context.Context) (entities.Definition, error) {
			return it.metadata.PreviewCuration(ctx, coordinate, patch)
		})
}

// ResetPreview clears the last preview without contacting the API.
func (it *DefinitionsCommand) ResetPreview() {
	it.workspace.Tracker.Start(OpDefinitionPreview)
	it.workspace.Tracker.Succeed(OpDefinitionPreview, entities.Definition{})
}

// Revert discards local edits (see DefinitionCache.Revert) and writes the result back
// to the list. Nothing is fetched.
func (it *DefinitionsCommand) Revert(target *entities.Coordinate, fields []string) entities.RevertResult {
	it.workspace.Tracker.Start(OpDefinitionRevert)
	result := it.workspace.Cache.Revert(it.workspace.List.Entries(), target, fields)
	it.workspace.List.UpdateEntries(result.Entries)
	it.workspace.Tracker.Succeed(OpDefinitionRevert, result)
	return result
}

// Browse runs a search and loads the page into the list: a query carrying a
// continuation token appends, a fresh query replaces. Every returned definition is
// merged into the cache.
func (it *DefinitionsCommand) Browse(
	ctx context.Context,
	query entities.SearchQuery,
) (entities.SearchResult, error) {
	result, err := Track(ctx, it.workspace.Tracker, OpBrowseDefinitions,
		func(ctx context.Context) (entities.SearchResult, error) {
			return it.metadata.Search(ctx, query)
		})
	if err != nil {
		return entities.SearchResult{}, err
	}

	bodies := make(map[string]entities.Definition, len(result.Data))
	page := make([]entities.Definition, 0, len(result.Data))
	for _, definition := range result.Data {
		coordinate, ok := entities.ValidateAndCreate(definition.Coordinates)
		if !ok {
			logger.Debugf("Skipping search result with invalid coordinates: %+v", definition.Coordinates)
			continue
		}
		definition.Coordinates = coordinate
		page = append(page, definition)
		bodies[coordinate.ToPath()] = definition
	}

	update := Update[entities.Definition]{Add: bodies}
	if query.ContinuationToken != "" {
		update.AddAll = page
	} else {
		update.UpdateAll = page
	}
	it.applyDefinitions(update)
	it.workspace.List.SetContinuationToken(result.ContinuationToken)

	return result, nil
}

// applyDefinitions merges the keyed bodies into the cache and, when the update carries
// a page, appends it to the list (AddAll) or replaces the list with it (UpdateAll).
func (it *DefinitionsCommand) applyDefinitions(update Update[entities.Definition]) {
	switch {
	case update.UpdateAll != nil:
		it.workspace.List.UpdateAll(coordinatesOf(update.UpdateAll))
	case update.AddAll != nil:
		it.workspace.List.AddAll(coordinatesOf(update.AddAll))
	}
	it.workspace.Cache.MergeAdd(update.Add)
}

func coordinatesOf(definitions []entities.Definition) []entities.Coordinate {
	coordinates := make([]entities.Coordinate, len(definitions))
	for i, definition := range definitions {
		coordinates[i] = definition.Coordinates
	}
	return coordinates
}

// claim marks the keys as being fetched and returns those nobody else claimed.
func (it *DefinitionsCommand) claim(keys []string) []string {
	it.mu.Lock()
	defer it.mu.Unlock()
	claimed := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, busy := it.inFlight[key]; busy {
			continue
		}
		it.inFlight[key] = struct{}{}
		claimed = append(claimed, key)
	}
	return claimed
}

// Pending counts the keys another batch is still fetching.
func (it *DefinitionsCommand) Pending(keys []string) int {
	it.mu.Lock()
	defer it.mu.Unlock()
	pending := 0
	for _, key := range keys {
		if _, busy := it.inFlight[key]; busy {
			pending++
		}
	}
	return pending
}

func (it *DefinitionsCommand) release(keys []string) {
	it.mu.Lock()
	defer it.mu.Unlock()
	for _, key := range keys {
		delete(it.inFlight, key)
	}
}
