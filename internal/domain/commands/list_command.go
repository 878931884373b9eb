package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

const messageAllLoaded = "All components have been loaded"

// Lists is the interface for the working list operations.
type Lists interface {
	AddComponent(ctx context.Context, value any) (entities.Coordinate, error)
	Remove(key string) bool
	RemoveAll()
	Change(key, field string, value any) bool
	Transform(sortBy *entities.SortBy, filter entities.Filter)
	LoadListSpec(ctx context.Context, payload entities.SharePayload) (int, error)
	RefreshAll(ctx context.Context) error
}

// ListCommand edits the working list and makes sure its entries have definitions.
type ListCommand struct {
	workspace   *entities.Workspace
	definitions Definitions
}

// NewListCommand creates a new ListCommand.
func NewListCommand(workspace *entities.Workspace, definitions Definitions) *ListCommand {
	return &ListCommand{workspace: workspace, definitions: definitions}
}

// AddComponent adds one component, given either as a canonical key or as a coordinate.
// A component without revision is refused with a warning notice. When its definition
// is not cached yet it is fetched after the entry is added.
func (it *ListCommand) AddComponent(ctx context.Context, value any) (entities.Coordinate, error) {
	coordinate, err := toCoordinate(value)
	if err != nil {
		it.workspace.Bus.Notify(entities.NoticeWarning, err.Error())
		return entities.Coordinate{}, err
	}

	path := coordinate.ToPath()
	if coordinate.Revision == "" {
		it.workspace.Bus.Notify(entities.NoticeWarning, path+" needs version information")
		return coordinate, fmt.Errorf("%s: %w", path, entities.ErrMissingRevision)
	}

	if it.workspace.List.Add(coordinate) {
		logger.Infof("Added %s to the list", path)
	}
	if !it.workspace.Cache.Has(path) {
		if _, fetchErr := it.definitions.BulkFetch(ctx, []string{path}); fetchErr != nil {
			it.workspace.Bus.Notify(entities.NoticeWarning, fmt.Sprintf("Could not fetch %s: %v", path, fetchErr))
			return coordinate, fetchErr
		}
	}
	return coordinate, nil
}

// Remove deletes the entry with the given key.
func (it *ListCommand) Remove(key string) bool {
	return it.workspace.List.Remove(key)
}

// RemoveAll empties the list.
func (it *ListCommand) RemoveAll() {
	it.workspace.List.RemoveAll()
}

// Change records a local edit on one entry.
func (it *ListCommand) Change(key, field string, value any) bool {
	return it.workspace.List.Change(key, field, value)
}

// Transform sets the active sort and filter.
func (it *ListCommand) Transform(sortBy *entities.SortBy, filter entities.Filter) {
	it.workspace.List.Transform(sortBy, filter)
}

// LoadListSpec loads a whole list: the valid coordinates are appended, the missing
// definitions fetched in one batch, and the payload's sort and filter applied once
// they are known. Invalid coordinates are dropped silently. It returns the number of
// entries added.
func (it *ListCommand) LoadListSpec(ctx context.Context, payload entities.SharePayload) (int, error) {
	sortBy, filter := it.workspace.List.SortBy(), it.workspace.List.Filter()
	if payload.SortBy != nil {
		sortBy = payload.SortBy
	}
	if payload.Filter != nil {
		filter = payload.Filter
	}

	valid := make([]entities.Coordinate, 0, len(payload.Coordinates))
	keys := make([]string, 0, len(payload.Coordinates))
	for _, candidate := range payload.Coordinates {
		coordinate, ok := entities.ValidateAndCreate(candidate)
		if !ok {
			logger.Debugf("Dropping invalid coordinate %+v", candidate)
			continue
		}
		valid = append(valid, coordinate)
		if coordinate.IsFetchable() {
			keys = append(keys, coordinate.ToPath())
		}
	}

	added := it.workspace.List.AddAll(valid)
	logger.Infof("Loaded %d of %d components", added, len(payload.Coordinates))

	_, fetchErr := it.definitions.BulkFetch(ctx, keys)
	it.workspace.List.Transform(sortBy, filter)
	if fetchErr != nil {
		it.workspace.Bus.Notify(entities.NoticeWarning, fmt.Sprintf("Some definitions could not be loaded: %v", fetchErr))
		return added, fetchErr
	}

	if pending := it.definitions.Pending(keys); pending > 0 {
		it.workspace.Bus.Notify(entities.NoticeInfo,
			fmt.Sprintf("%d of %d components are still loading", pending, len(keys)))
		return added, nil
	}
	it.workspace.Bus.Notify(entities.NoticeInfo, messageAllLoaded)
	return added, nil
}

// RefreshAll drops every local edit and re-fetches the definitions of the whole list.
func (it *ListCommand) RefreshAll(ctx context.Context) error {
	it.definitions.Revert(nil, nil)

	keys := make([]string, 0, it.workspace.List.Len())
	for _, entry := range it.workspace.List.Entries() {
		if entry.IsFetchable() {
			keys = append(keys, entry.Key())
		}
	}
	if _, err := it.definitions.Refresh(ctx, keys); err != nil {
		return err
	}
	return nil
}

func toCoordinate(value any) (entities.Coordinate, error) {
	switch typed := value.(type) {
	case string:
		return entities.FromPath(typed)
	case entities.Coordinate:
		if coordinate, ok := entities.ValidateAndCreate(typed); ok {
			return coordinate, nil
		}
		return entities.Coordinate{}, fmt.Errorf("%q: %w", typed.ToPath(), entities.ErrInvalidPath)
	case *entities.Coordinate:
		if typed == nil {
			return entities.Coordinate{}, entities.ErrInvalidPath
		}
		return toCoordinate(*typed)
	default:
		return entities.Coordinate{}, fmt.Errorf("unsupported component value %T: %w", value, entities.ErrInvalidPath)
	}
}
