//go:build unit

package entities_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

func TestBus(t *testing.T) {
	t.Parallel()

	t.Run("should stop delivering after unsubscribe", func(t *testing.T) {
		t.Parallel()

		// given
		bus := entities.NewBus()
		received := 0
		unsubscribe := bus.Subscribe(func(entities.Event) { received++ })
		bus.Notify(entities.NoticeInfo, "first")

		// when
		unsubscribe()
		bus.Notify(entities.NoticeInfo, "second")

		// then
		assert.Equal(t, 1, received)
	})

	t.Run("should deliver in subscription order after an unsubscribe", func(t *testing.T) {
		t.Parallel()

		// given
		bus := entities.NewBus()
		var order []string
		record := func(name string) func(entities.Event) {
			return func(entities.Event) { order = append(order, name) }
		}
		bus.Subscribe(record("first"))
		unsubscribe := bus.Subscribe(record("second"))
		bus.Subscribe(record("third"))
		bus.Subscribe(record("fourth"))

		// when
		unsubscribe()
		bus.Notify(entities.NoticeInfo, "ordered")

		// then
		assert.Equal(t, []string{"first", "third", "fourth"}, order)
	})

	t.Run("should stamp notices with their level and time", func(t *testing.T) {
		t.Parallel()

		// given
		bus := entities.NewBus()
		var got entities.Event
		bus.Subscribe(func(event entities.Event) { got = event })

		// when
		bus.Notify(entities.NoticeWarning, "careful")

		// then
		assert.Equal(t, entities.EventNotice, got.Kind)
		assert.Equal(t, entities.NoticeWarning, got.Level)
		assert.Equal(t, "careful", got.Message)
		assert.False(t, got.At.IsZero())
	})

	t.Run("should ignore publications on a nil bus", func(t *testing.T) {
		t.Parallel()

		// given
		var bus *entities.Bus

		// when / then
		assert.NotPanics(t, func() { bus.Publish(entities.Event{Kind: entities.EventNotice}) })
	})
}

func TestTracker(t *testing.T) {
	t.Parallel()

	t.Run("should stay loading while any operation of the name is in flight", func(t *testing.T) {
		t.Parallel()

		// given
		tracker := entities.NewTracker(entities.NewBus())
		tracker.Start("A")
		tracker.Start("A")

		// when
		tracker.Succeed("A", 1)

		// then
		assert.True(t, tracker.Loading("A"))
		tracker.Succeed("A", 2)
		assert.False(t, tracker.Loading("A"))
		assert.Equal(t, 2, tracker.State("A").LastPayload)
	})

	t.Run("should keep names independent", func(t *testing.T) {
		t.Parallel()

		// given
		tracker := entities.NewTracker(entities.NewBus())
		tracker.Start("A")

		// when
		tracker.Start("B")
		tracker.Fail("B", errors.New("boom"))

		// then
		assert.True(t, tracker.Loading("A"))
		assert.False(t, tracker.Loading("B"))
		require.Error(t, tracker.State("B").LastError)
		assert.Equal(t, entities.PhaseError, tracker.State("B").LastPhase)
	})

	t.Run("should publish each transition", func(t *testing.T) {
		t.Parallel()

		// given
		bus := entities.NewBus()
		tracker := entities.NewTracker(bus)
		var phases []entities.Phase
		bus.Subscribe(func(event entities.Event) {
			if event.Kind == entities.EventLoadingChanged {
				phases = append(phases, event.Phase)
			}
		})

		// when
		tracker.Start("A")
		tracker.Fail("A", errors.New("boom"))

		// then
		assert.Equal(t, []entities.Phase{entities.PhaseStart, entities.PhaseError}, phases)
	})
}

func TestWorkspaceReset(t *testing.T) {
	t.Parallel()

	t.Run("should clear the list, the cache and the tracker", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := entities.NewWorkspace()
		defer workspace.Close()
		coordinate := coordinateNamed("a", "1")
		workspace.List.Add(coordinate)
		workspace.List.Transform(&entities.SortBy{Field: "name"}, entities.Filter{"name": "a"})
		workspace.Cache.MergeAdd(map[string]entities.Definition{coordinate.ToPath(): {Coordinates: coordinate}})
		workspace.Tracker.Start("A")

		// when
		workspace.Reset()

		// then
		assert.Zero(t, workspace.List.Len())
		assert.Nil(t, workspace.List.SortBy())
		assert.Empty(t, workspace.List.Filter())
		assert.Zero(t, workspace.Cache.Len())
		assert.False(t, workspace.Tracker.Loading("A"))
	})
}

func TestBuildSaveSpec(t *testing.T) {
	t.Parallel()

	t.Run("should return the coordinates in list order without local state", func(t *testing.T) {
		t.Parallel()

		// given
		first := entities.NewEntry(coordinateNamed("b", "1"))
		first.Changes = map[string]any{"licensed.declared": "MIT"}
		second := entities.NewEntry(coordinateNamed("a", "1"))

		// when
		saved := entities.BuildSaveSpec([]entities.Entry{first, second})

		// then
		assert.Equal(t, []entities.Coordinate{coordinateNamed("b", "1"), coordinateNamed("a", "1")}, saved)
	})
}
