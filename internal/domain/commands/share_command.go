package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	infraRepos "github.com/rios0rios0/cdlist/internal/infrastructure/repositories"
)

const (
	messageLoadFromURLFailed = "Loading components from URL failed"
	messagePermissionDenied  = "Could not create Gist. Likely you've not given us permission"
	shareFilePermissions     = 0o644
)

// Share is the interface for serializing and restoring the working list.
type Share interface {
	BuildPayload() entities.SharePayload
	ShareURL(payload entities.SharePayload) (string, error)
	LoadSharedList(ctx context.Context, token string) (int, error)
	SaveFile(path string, payload entities.SharePayload) (string, error)
	SaveBundle(ctx context.Context, name string, payload entities.SharePayload) (string, error)
}

// ShareCommand turns the working list into tokens, files and remote bundles and back.
type ShareCommand struct {
	workspace *entities.Workspace
	lists     Lists
	bundles   *infraRepos.BundleRegistry
	settings  *entities.Settings
}

// NewShareCommand creates a new ShareCommand.
func NewShareCommand(
	workspace *entities.Workspace,
	lists Lists,
	bundles *infraRepos.BundleRegistry,
	settings *entities.Settings,
) *ShareCommand {
	return &ShareCommand{workspace: workspace, lists: lists, bundles: bundles, settings: settings}
}

// BuildPayload captures the list with its active filter and sort.
func (it *ShareCommand) BuildPayload() entities.SharePayload {
	return entities.SharePayload{
		Filter:      it.workspace.List.Filter(),
		SortBy:      it.workspace.List.SortBy(),
		Coordinates: entities.BuildSaveSpec(it.workspace.List.Entries()),
	}
}

// ShareURL returns the link that reopens the payload.
func (it *ShareCommand) ShareURL(payload entities.SharePayload) (string, error) {
	token, err := EncodeShareToken(payload)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%s", it.settings.Share.BaseURL, sharePathMarker, token), nil
}

// LoadSharedList decodes a token (or a share URL) and loads the list it carries.
func (it *ShareCommand) LoadSharedList(ctx context.Context, token string) (int, error) {
	payload, err := DecodeShareToken(token)
	if err != nil {
		logger.Warnf("Failed to decode shared list: %v", err)
		it.workspace.Bus.Notify(entities.NoticeWarning, messageLoadFromURLFailed)
		return 0, err
	}
	return it.lists.LoadListSpec(ctx, payload)
}

// SaveFile writes the payload as indented JSON. A path without extension gets ".json".
func (it *ShareCommand) SaveFile(path string, payload entities.SharePayload) (string, error) {
	if filepath.Ext(path) == "" {
		path += ".json"
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize list: %w", err)
	}
	if err = os.WriteFile(path, append(data, '\n'), shareFilePermissions); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", path, err)
	}
	logger.Infof("Saved %d components to %s", len(payload.Coordinates), path)
	return path, nil
}

// SaveBundle stores the payload as a new remote bundle on the configured store and
// returns its URL. A permission failure gets its own notice.
func (it *ShareCommand) SaveBundle(
	ctx context.Context,
	name string,
	payload entities.SharePayload,
) (string, error) {
	store, err := it.bundles.Default()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize list: %w", err)
	}
	fileName := strings.TrimSuffix(name, ".json") + ".json"

	location, err := Track(ctx, it.workspace.Tracker, OpBundleCreate,
		func(ctx context.Context) (string, error) {
			return store.Create(ctx, fileName, string(data))
		})
	if err != nil {
		if errors.Is(err, entities.ErrBundlePermission) {
			it.workspace.Bus.Notify(entities.NoticeWarning, messagePermissionDenied)
		} else {
			it.workspace.Bus.Notify(entities.NoticeWarning, "Could not create the bundle: "+err.Error())
		}
		return "", err
	}

	it.workspace.Bus.Notify(entities.NoticeInfo, "A new bundle file has been created and is available at "+location)
	return location, nil
}
