//go:build unit

package repositories_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	domainRepos "github.com/rios0rios0/cdlist/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/cdlist/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/cdlist/test/infrastructure/repositorydoubles"
)

func stubFactory(store *doubles.StubBundleRepository, builds *int) infraRepos.BundleFactory {
	return func(*entities.Settings) (domainRepos.BundleRepository, error) {
		*builds++
		return store, nil
	}
}

func TestBundleRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should build a store once and reuse it", func(t *testing.T) {
		t.Parallel()

		// given
		builds := 0
		registry := infraRepos.NewBundleRegistry(entities.NewSettings())
		registry.Register("one", stubFactory(&doubles.StubBundleRepository{StoreName: "one"}, &builds))

		// when
		first, firstErr := registry.Get("one")
		second, secondErr := registry.Get("one")

		// then
		require.NoError(t, firstErr)
		require.NoError(t, secondErr)
		assert.Same(t, first, second)
		assert.Equal(t, 1, builds)
	})

	t.Run("should return an error for an unknown store", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewBundleRegistry(entities.NewSettings())

		// when
		store, err := registry.Get("nonexistent")

		// then
		require.Error(t, err)
		assert.Nil(t, store)
		assert.Contains(t, err.Error(), "unknown bundle provider")
	})

	t.Run("should pick the default store from the settings", func(t *testing.T) {
		t.Parallel()

		// given
		builds := 0
		settings := entities.NewSettings()
		settings.Bundles.Provider = "two"
		registry := infraRepos.NewBundleRegistry(settings)
		registry.Register("one", stubFactory(&doubles.StubBundleRepository{StoreName: "one"}, &builds))
		registry.Register("two", stubFactory(&doubles.StubBundleRepository{StoreName: "two"}, &builds))

		// when
		store, err := registry.Default()

		// then
		require.NoError(t, err)
		assert.Equal(t, "two", store.Name())
		assert.Equal(t, []string{"one", "two"}, registry.Names())
	})

	t.Run("should match a url to the store that claims it", func(t *testing.T) {
		t.Parallel()

		// given
		builds := 0
		registry := infraRepos.NewBundleRegistry(entities.NewSettings())
		registry.Register("broken", func(*entities.Settings) (domainRepos.BundleRepository, error) {
			return nil, errors.New("not configured")
		})
		registry.Register("one", stubFactory(&doubles.StubBundleRepository{StoreName: "one", Prefix: "https://one.test/"}, &builds))
		registry.Register("two", stubFactory(&doubles.StubBundleRepository{StoreName: "two", Prefix: "https://two.test/"}, &builds))

		// when
		store, id, matched, err := registry.Match("https://two.test/xyz")

		// then
		require.NoError(t, err)
		assert.True(t, matched)
		assert.Equal(t, "two", store.Name())
		assert.Equal(t, "xyz", id)
	})

	t.Run("should not match an unclaimed url", func(t *testing.T) {
		t.Parallel()

		// given
		builds := 0
		registry := infraRepos.NewBundleRegistry(entities.NewSettings())
		registry.Register("one", stubFactory(&doubles.StubBundleRepository{StoreName: "one", Prefix: "https://one.test/"}, &builds))

		// when
		_, _, matched, err := registry.Match("https://elsewhere.test/xyz")

		// then
		require.NoError(t, err)
		assert.False(t, matched)
	})
}

func TestLazyMetadataRepository(t *testing.T) {
	t.Parallel()

	t.Run("should build the delegate on first use only", func(t *testing.T) {
		t.Parallel()

		// given
		builds := 0
		spy := &doubles.SpyMetadataRepository{Suggestions: []string{"npm/npmjs/-/lodash"}}
		lazy := infraRepos.NewLazyMetadataRepository(func() domainRepos.MetadataRepository {
			builds++
			return spy
		})
		assert.Zero(t, builds)

		// when
		first, _ := lazy.Suggest(t.Context(), "lo")
		_, _ = lazy.Suggest(t.Context(), "lod")

		// then
		assert.Equal(t, 1, builds)
		assert.Equal(t, []string{"npm/npmjs/-/lodash"}, first)
		assert.Equal(t, []string{"lo", "lod"}, spy.Prefixes)
	})
}
