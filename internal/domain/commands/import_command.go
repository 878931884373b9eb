package commands

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"mime"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/cdlist/internal/infrastructure/repositories"
)

const jsonContentType = "application/json"

// Import is the interface for classifying and loading dropped or pasted content.
type Import interface {
	Detect(ctx context.Context, content string) (entities.ImportResult, error)
	Import(ctx context.Context, content string) (entities.ImportResult, error)
	ImportFiles(ctx context.Context, files []entities.DroppedFile) (entities.ImportResult, error)
}

// ImportCommand turns opaque content into coordinates and hands them to the list.
type ImportCommand struct {
	workspace *entities.Workspace
	lists     Lists
	bundles   *infraRepos.BundleRegistry
	navigator repositories.Navigator
	settings  *entities.Settings
}

// NewImportCommand creates a new ImportCommand.
func NewImportCommand(
	workspace *entities.Workspace,
	lists Lists,
	bundles *infraRepos.BundleRegistry,
	navigator repositories.Navigator,
	settings *entities.Settings,
) *ImportCommand {
	return &ImportCommand{
		workspace: workspace,
		lists:     lists,
		bundles:   bundles,
		navigator: navigator,
		settings:  settings,
	}
}

// Detect classifies the content without touching the list. Classification runs in
// priority order: single coordinate object, lock file, saved component list, entity
// URL, curation pull request, canonical path, remote bundle. Unrecognized content is
// reported through the result kind, not as an error; only a failing remote bundle
// returns one.
func (it *ImportCommand) Detect(ctx context.Context, content string) (entities.ImportResult, error) {
	input := newImportInput(content)
	if input.text == "" {
		return entities.ImportResult{Kind: entities.ImportUnrecognized}, nil
	}

	if result, ok := classifyObject(input.object); ok {
		return result, nil
	}
	if input.object != nil {
		return entities.ImportResult{Kind: entities.ImportUnrecognized}, nil
	}
	if result, ok := classifyEntityURL(input.text); ok {
		return result, nil
	}
	if result, ok := classifyCurationPR(input.text, it.settings.CurationOrg); ok {
		return result, nil
	}
	if result, ok := classifyPath(input.text); ok {
		return result, nil
	}

	store, id, matched, err := it.bundles.Match(input.text)
	if matched {
		if err != nil {
			return entities.ImportResult{Kind: entities.ImportRemoteList}, err
		}
		return it.fetchBundle(ctx, store, id)
	}

	return entities.ImportResult{Kind: entities.ImportUnrecognized}, nil
}

// Import classifies the content and applies it: coordinates are added, lists are
// loaded with their filter and sort, curation pull requests are navigated to.
func (it *ImportCommand) Import(ctx context.Context, content string) (entities.ImportResult, error) {
	result, err := it.Detect(ctx, content)
	if err != nil {
		it.workspace.Bus.Notify(entities.NoticeWarning, err.Error())
		return result, err
	}
	return result, it.apply(ctx, result)
}

// ImportFiles loads local files. Only JSON files are read; the others are reported
// together in one warning and listed in the result.
func (it *ImportCommand) ImportFiles(
	ctx context.Context,
	files []entities.DroppedFile,
) (entities.ImportResult, error) {
	result := entities.ImportResult{Kind: entities.ImportFiles}
	accepted := make([]entities.DroppedFile, 0, len(files))
	for _, file := range files {
		if isJSON(file.ContentType) {
			accepted = append(accepted, file)
			continue
		}
		result.Rejected = append(result.Rejected, file.Name)
	}
	if len(result.Rejected) > 0 {
		it.workspace.Bus.Notify(entities.NoticeWarning, "Could not load: "+strings.Join(result.Rejected, ", "))
	}
	if len(accepted) == 0 {
		result.Kind = entities.ImportUnrecognized
		return result, nil
	}

	for _, file := range accepted {
		member, err := classifyListDocument(file.Name, string(file.Content))
		if err != nil {
			result.Invalid = append(result.Invalid, file.Name)
			it.workspace.Bus.Notify(entities.NoticeWarning, "Invalid component list file: "+file.Name)
			continue
		}
		mergeResult(&result, member)
	}
	return result, it.apply(ctx, result)
}

func (it *ImportCommand) fetchBundle(
	ctx context.Context,
	store repositories.BundleRepository,
	id string,
) (entities.ImportResult, error) {
	result := entities.ImportResult{Kind: entities.ImportRemoteList}
	it.workspace.Bus.Notify(entities.NoticeInfo, "Loading component list from "+store.Name())

	files, err := Track(ctx, it.workspace.Tracker, OpBundleFetch,
		func(ctx context.Context) (map[string]string, error) {
			return store.Fetch(ctx, id)
		})
	if err != nil {
		return result, fmt.Errorf("bundle %s could not be loaded: %w", id, err)
	}
	if len(files) == 0 {
		return result, fmt.Errorf("bundle %s: %w", id, entities.ErrEmptyBundle)
	}

	for _, name := range slices.Sorted(maps.Keys(files)) {
		member, memberErr := classifyListDocument(name, files[name])
		if memberErr != nil {
			result.Invalid = append(result.Invalid, name)
			it.workspace.Bus.Notify(entities.NoticeWarning, "Invalid component list file: "+name)
			continue
		}
		mergeResult(&result, member)
	}
	logger.Infof("Bundle %s yielded %d components from %d files", id, len(result.Coordinates), len(files))
	return result, nil
}

func (it *ImportCommand) apply(ctx context.Context, result entities.ImportResult) error {
	switch {
	case result.Kind == entities.ImportCurationPR:
		it.navigator.Navigate(result.Route)
		return nil
	case result.IsList():
		if len(result.Coordinates) == 0 && result.Filter == nil && result.SortBy == nil {
			return nil
		}
		_, err := it.lists.LoadListSpec(ctx, entities.SharePayload{
			Filter:      result.Filter,
			SortBy:      result.SortBy,
			Coordinates: result.Coordinates,
		})
		return err
	case result.Recognized():
		var errs []error
		for _, coordinate := range result.Coordinates {
			if _, err := it.lists.AddComponent(ctx, coordinate); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	default:
		it.workspace.Bus.Notify(entities.NoticeWarning, "The content could not be recognized")
		return entities.ErrUnrecognizedContent
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == jsonContentType
}
