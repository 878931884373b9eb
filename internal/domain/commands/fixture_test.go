//go:build unit

package commands_test

import (
	"testing"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
	domainRepos "github.com/rios0rios0/cdlist/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/cdlist/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/cdlist/test/infrastructure/repositorydoubles"
)

const stubStore = "stub"

type fixture struct {
	workspace   *entities.Workspace
	settings    *entities.Settings
	metadata    *doubles.SpyMetadataRepository
	bundle      *doubles.StubBundleRepository
	navigator   *doubles.SpyNavigator
	definitions *commands.DefinitionsCommand
	lists       *commands.ListCommand
	importer    *commands.ImportCommand
	share       *commands.ShareCommand
	notices     []entities.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		workspace: entities.NewWorkspace(),
		settings:  entities.NewSettings(),
		metadata:  &doubles.SpyMetadataRepository{Bodies: map[string]entities.Definition{}},
		bundle:    &doubles.StubBundleRepository{StoreName: stubStore, Prefix: "https://bundles.test/"},
		navigator: &doubles.SpyNavigator{},
	}
	f.settings.Bundles.Provider = stubStore
	t.Cleanup(f.workspace.Close)

	f.workspace.Bus.Subscribe(func(event entities.Event) {
		if event.Kind == entities.EventNotice {
			f.notices = append(f.notices, event)
		}
	})

	bundles := infraRepos.NewBundleRegistry(f.settings)
	bundles.Register(stubStore, func(*entities.Settings) (domainRepos.BundleRepository, error) {
		return f.bundle, nil
	})

	f.definitions = commands.NewDefinitionsCommand(f.workspace, f.metadata, f.settings)
	f.lists = commands.NewListCommand(f.workspace, f.definitions)
	f.importer = commands.NewImportCommand(f.workspace, f.lists, bundles, f.navigator, f.settings)
	f.share = commands.NewShareCommand(f.workspace, f.lists, bundles, f.settings)
	return f
}

// serve makes the metadata spy answer for the given coordinates.
func (f *fixture) serve(coordinates ...entities.Coordinate) {
	for _, coordinate := range coordinates {
		f.metadata.Bodies[coordinate.ToPath()] = entities.Definition{
			Coordinates: coordinate,
			Licensed:    map[string]any{"declared": "MIT"},
		}
	}
}

func (f *fixture) messages(level entities.NoticeLevel) []string {
	var messages []string
	for _, notice := range f.notices {
		if notice.Level == level {
			messages = append(messages, notice.Message)
		}
	}
	return messages
}
