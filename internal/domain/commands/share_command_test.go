//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

func TestShareCommandRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("should rebuild the list, filter and sort from a share url", func(t *testing.T) {
		t.Parallel()

		// given
		source := newFixture(t)
		source.workspace.List.AddAll([]entities.Coordinate{named("b"), named("a")})
		source.workspace.List.Transform(&entities.SortBy{Field: "name"}, entities.Filter{"type": "npm"})
		link, err := source.share.ShareURL(source.share.BuildPayload())
		require.NoError(t, err)
		target := newFixture(t)

		// when
		added, loadErr := target.share.LoadSharedList(context.Background(), link)

		// then
		require.NoError(t, loadErr)
		assert.True(t, strings.HasPrefix(link, "https://clearlydefined.io/share/"))
		assert.Equal(t, 2, added)
		assert.Equal(t, source.workspace.List.Keys(), target.workspace.List.Keys())
		assert.Equal(t, source.workspace.List.SortBy(), target.workspace.List.SortBy())
		assert.Equal(t, source.workspace.List.Filter(), target.workspace.List.Filter())
	})

	t.Run("should warn once when the token cannot be decoded", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)

		// when
		_, err := f.share.LoadSharedList(context.Background(), "%%%")

		// then
		require.ErrorIs(t, err, entities.ErrSharedListLoad)
		assert.Equal(t, []string{"Loading components from URL failed"}, f.messages(entities.NoticeWarning))
		assert.Zero(t, f.workspace.List.Len())
	})
}

func TestShareCommandSaveFile(t *testing.T) {
	t.Parallel()

	t.Run("should add the json extension and write a loadable list", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.workspace.List.Add(named("a"))
		path := filepath.Join(t.TempDir(), "my-list")

		// when
		written, err := f.share.SaveFile(path, f.share.BuildPayload())

		// then
		require.NoError(t, err)
		assert.Equal(t, path+".json", written)
		data, readErr := os.ReadFile(written)
		require.NoError(t, readErr)
		var payload entities.SharePayload
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Equal(t, []entities.Coordinate{named("a")}, payload.Coordinates)
	})
}

func TestShareCommandSaveBundle(t *testing.T) {
	t.Parallel()

	t.Run("should create the bundle and announce its location", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.bundle.Location = "https://bundles.test/new"
		f.workspace.List.Add(named("a"))

		// when
		location, err := f.share.SaveBundle(context.Background(), "my-list", f.share.BuildPayload())

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://bundles.test/new", location)
		assert.Contains(t, f.bundle.Created, "my-list.json")
		assert.Contains(t, f.messages(entities.NoticeInfo),
			"A new bundle file has been created and is available at https://bundles.test/new")
	})

	t.Run("should explain a permission failure", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.bundle.CreateErr = fmt.Errorf("%w: 403", entities.ErrBundlePermission)

		// when
		_, err := f.share.SaveBundle(context.Background(), "list.json", f.share.BuildPayload())

		// then
		require.ErrorIs(t, err, entities.ErrBundlePermission)
		assert.Equal(t, []string{"Could not create Gist. Likely you've not given us permission"},
			f.messages(entities.NoticeWarning))
	})

	t.Run("should report any other failure", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.bundle.CreateErr = errors.New("disk full")

		// when
		_, err := f.share.SaveBundle(context.Background(), "list", f.share.BuildPayload())

		// then
		require.Error(t, err)
		assert.Equal(t, []string{"Could not create the bundle: disk full"}, f.messages(entities.NoticeWarning))
	})
}
