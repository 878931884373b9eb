//go:build unit

package telemetry_test

import (
	"errors"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/infrastructure/telemetry"
	builders "github.com/rios0rios0/cdlist/test/domain/entitybuilders"
)

func family(t *testing.T, metrics *telemetry.Metrics, name string) *dto.MetricFamily {
	t.Helper()
	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	for _, candidate := range families {
		if candidate.GetName() == name {
			return candidate
		}
	}
	return nil
}

func labelled(found *dto.MetricFamily, labels map[string]string) *dto.Metric {
	if found == nil {
		return nil
	}
	for _, metric := range found.GetMetric() {
		matches := 0
		for _, pair := range metric.GetLabel() {
			if labels[pair.GetName()] == pair.GetValue() {
				matches++
			}
		}
		if matches == len(labels) {
			return metric
		}
	}
	return nil
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	t.Run("should count fetch transitions and observe durations", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := entities.NewWorkspace()
		metrics := telemetry.NewMetrics()
		detach := metrics.Attach(workspace)
		defer detach()

		// when
		workspace.Tracker.Start("definition")
		workspace.Tracker.Succeed("definition", nil)
		workspace.Tracker.Start("definition")
		workspace.Tracker.Fail("definition", errors.New("boom"))

		// then
		total := family(t, metrics, "cdlist_fetch_total")
		started := labelled(total, map[string]string{"name": "definition", "phase": "start"})
		require.NotNil(t, started)
		assert.InDelta(t, 2, started.GetCounter().GetValue(), 0)
		failed := labelled(total, map[string]string{"name": "definition", "phase": "error"})
		require.NotNil(t, failed)
		assert.InDelta(t, 1, failed.GetCounter().GetValue(), 0)

		inFlight := labelled(family(t, metrics, "cdlist_fetch_inflight"), map[string]string{"name": "definition"})
		require.NotNil(t, inFlight)
		assert.InDelta(t, 0, inFlight.GetGauge().GetValue(), 0)

		duration := labelled(family(t, metrics, "cdlist_fetch_duration_seconds"), map[string]string{"name": "definition"})
		require.NotNil(t, duration)
		assert.Equal(t, uint64(2), duration.GetHistogram().GetSampleCount())
	})

	t.Run("should track list and cache sizes", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := entities.NewWorkspace()
		metrics := telemetry.NewMetrics()
		detach := metrics.Attach(workspace)
		defer detach()
		coordinate := builders.NewCoordinateBuilder().BuildCoordinate()

		// when
		workspace.List.Add(coordinate)
		workspace.Cache.MergeAdd(map[string]entities.Definition{
			coordinate.ToPath(): builders.NewDefinitionBuilder().WithCoordinates(coordinate).BuildDefinition(),
		})

		// then
		entries := family(t, metrics, "cdlist_list_entries")
		require.NotNil(t, entries)
		assert.InDelta(t, 1, entries.GetMetric()[0].GetGauge().GetValue(), 0)
		cached := family(t, metrics, "cdlist_cached_definitions")
		require.NotNil(t, cached)
		assert.InDelta(t, 1, cached.GetMetric()[0].GetGauge().GetValue(), 0)
	})

	t.Run("should count notices by level", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := entities.NewWorkspace()
		metrics := telemetry.NewMetrics()
		detach := metrics.Attach(workspace)
		defer detach()

		// when
		workspace.Bus.Notify(entities.NoticeWarning, "first")
		workspace.Bus.Notify(entities.NoticeWarning, "second")
		workspace.Bus.Notify(entities.NoticeDanger, "third")

		// then
		notices := family(t, metrics, "cdlist_notices_total")
		warnings := labelled(notices, map[string]string{"level": "warning"})
		require.NotNil(t, warnings)
		assert.InDelta(t, 2, warnings.GetCounter().GetValue(), 0)
	})

	t.Run("should stop observing once detached", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := entities.NewWorkspace()
		metrics := telemetry.NewMetrics()
		detach := metrics.Attach(workspace)

		// when
		detach()
		workspace.Bus.Notify(entities.NoticeInfo, "ignored")

		// then
		assert.Nil(t, labelled(family(t, metrics, "cdlist_notices_total"), map[string]string{"level": "info"}))
	})
}
