//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/test/domain/entitybuilders"
)

func TestListCommandAddComponent(t *testing.T) {
	t.Parallel()

	t.Run("should refuse a component without revision and warn", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		coordinate := entitybuilders.NewCoordinateBuilder().WithoutRevision().BuildCoordinate()

		// when
		_, err := f.lists.AddComponent(context.Background(), coordinate)

		// then
		require.ErrorIs(t, err, entities.ErrMissingRevision)
		assert.Zero(t, f.workspace.List.Len())
		assert.Equal(t, []string{"npm/npmjs/-/lodash needs version information"}, f.messages(entities.NoticeWarning))
	})

	t.Run("should add a canonical path and fetch its definition", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		coordinate := named("fresh")
		f.serve(coordinate)

		// when
		added, err := f.lists.AddComponent(context.Background(), coordinate.ToPath())

		// then
		require.NoError(t, err)
		assert.Equal(t, coordinate, added)
		assert.True(t, f.workspace.List.Contains(coordinate.ToPath()))
		assert.True(t, f.workspace.Cache.Has(coordinate.ToPath()))
	})

	t.Run("should skip the fetch when the definition is cached", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		coordinate := named("cached")
		f.workspace.Cache.MergeAdd(map[string]entities.Definition{coordinate.ToPath(): {Coordinates: coordinate}})

		// when
		_, err := f.lists.AddComponent(context.Background(), &coordinate)

		// then
		require.NoError(t, err)
		assert.Zero(t, f.metadata.FetchManyCalls())
	})

	t.Run("should keep the entry and warn when the fetch fails", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.metadata.FetchManyErr = errors.New("timeout")
		coordinate := named("flaky")

		// when
		_, err := f.lists.AddComponent(context.Background(), coordinate)

		// then
		require.Error(t, err)
		assert.True(t, f.workspace.List.Contains(coordinate.ToPath()))
		assert.Len(t, f.messages(entities.NoticeWarning), 1)
	})

	t.Run("should reject an unparsable path", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)

		// when
		_, err := f.lists.AddComponent(context.Background(), "not-a-path")

		// then
		require.ErrorIs(t, err, entities.ErrInvalidPath)
	})
}

func TestListCommandLoadListSpec(t *testing.T) {
	t.Parallel()

	t.Run("should add valid coordinates, fetch them and apply the saved transform", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		first, second := named("zeta"), named("alpha")
		f.serve(first, second)
		payload := entities.SharePayload{
			SortBy: &entities.SortBy{Field: "name"},
			Coordinates: []entities.Coordinate{
				first,
				second,
				{Type: "unknown", Provider: "x", Name: "y", Revision: "1"},
			},
		}

		// when
		added, err := f.lists.LoadListSpec(context.Background(), payload)

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, added)
		assert.Equal(t, []string{first.ToPath(), second.ToPath()}, f.workspace.List.Keys())
		view := f.workspace.List.View()
		require.Len(t, view, 2)
		assert.Equal(t, "alpha", view[0].Name)
		assert.Equal(t, 2, f.workspace.Cache.Len())
		assert.Contains(t, f.messages(entities.NoticeInfo), "All components have been loaded")
	})

	t.Run("should keep the entries and warn when the batch fails", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.metadata.FetchManyErr = errors.New("rate limited")

		// when
		added, err := f.lists.LoadListSpec(context.Background(),
			entities.SharePayload{Coordinates: []entities.Coordinate{named("a")}})

		// then
		require.Error(t, err)
		assert.Equal(t, 1, added)
		warnings := f.messages(entities.NoticeWarning)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "Some definitions could not be loaded")
	})

	t.Run("should report components still loading in another batch", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		coordinate := named("lodash")
		f.serve(coordinate)
		f.metadata.Entered = make(chan struct{})
		f.metadata.Hold = make(chan struct{})
		done := make(chan error, 1)
		go func() {
			_, err := f.definitions.BulkFetch(context.Background(), []string{coordinate.ToPath()})
			done <- err
		}()
		<-f.metadata.Entered

		// when
		added, err := f.lists.LoadListSpec(context.Background(),
			entities.SharePayload{Coordinates: []entities.Coordinate{coordinate}})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, added)
		infos := f.messages(entities.NoticeInfo)
		assert.Contains(t, infos, "1 of 1 components are still loading")
		assert.NotContains(t, infos, "All components have been loaded")

		close(f.metadata.Hold)
		require.NoError(t, <-done)
		assert.Equal(t, 1, f.workspace.Cache.Len())
	})

	t.Run("should keep the current filter when the payload carries none", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.workspace.List.Transform(nil, entities.Filter{"name": "a"})

		// when
		_, err := f.lists.LoadListSpec(context.Background(),
			entities.SharePayload{Coordinates: []entities.Coordinate{named("a"), named("b")}})

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.Filter{"name": "a"}, f.workspace.List.Filter())
		assert.Len(t, f.workspace.List.View(), 1)
	})
}

func TestListCommandRefreshAll(t *testing.T) {
	t.Parallel()

	t.Run("should drop local edits and refetch every fetchable entry", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		coordinate := named("a")
		f.serve(coordinate)
		f.workspace.List.Add(coordinate)
		f.workspace.List.Add(entitybuilders.NewCoordinateBuilder().WithName("bare").WithoutRevision().BuildCoordinate())
		f.workspace.List.Change(coordinate.ToPath(), "licensed.declared", "ISC")

		// when
		err := f.lists.RefreshAll(context.Background())

		// then
		require.NoError(t, err)
		assert.False(t, f.workspace.List.HasChanges())
		assert.Equal(t, [][]string{{coordinate.ToPath()}}, f.metadata.FetchedMany)
	})
}
