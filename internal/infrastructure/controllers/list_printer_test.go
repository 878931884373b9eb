//go:build unit

package controllers //nolint:testpackage // tests unexported functions

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	builders "github.com/rios0rios0/cdlist/test/domain/entitybuilders"
)

func newPrintedWorkspace() *entities.Workspace {
	workspace := entities.NewWorkspace()
	lodash := builders.NewCoordinateBuilder().BuildCoordinate()
	babel := builders.NewCoordinateBuilder().WithNamespace("@babel").WithName("core").WithRevision("7.1.0").BuildCoordinate()
	workspace.List.AddAll([]entities.Coordinate{lodash, babel})
	workspace.Cache.MergeAdd(map[string]entities.Definition{
		lodash.ToPath(): builders.NewDefinitionBuilder().WithCoordinates(lodash).BuildDefinition(),
	})
	return workspace
}

func TestPrintList(t *testing.T) {
	t.Parallel()

	t.Run("should say so when the list is empty", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer

		// when
		err := printList(&out, entities.NewWorkspace(), formatTable)

		// then
		require.NoError(t, err)
		assert.Equal(t, "The list is empty.\n", out.String())
	})

	t.Run("should print cached fields and placeholders as json", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		workspace := newPrintedWorkspace()

		// when
		err := printList(&out, workspace, formatJSON)

		// then
		require.NoError(t, err)
		var rows []listRow
		require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "npm/npmjs/-/lodash/4.17.21", rows[0].Key)
		assert.Equal(t, "MIT", rows[0].License)
		assert.Equal(t, "2021-02-20", rows[0].Released)
		assert.Equal(t, "@babel/core", rows[1].Name)
		assert.Equal(t, notAvailable, rows[1].License)
		assert.False(t, rows[1].Changed)
	})

	t.Run("should print a table with totals", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		workspace := newPrintedWorkspace()

		// when
		err := printList(&out, workspace, formatTable)

		// then
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		assert.True(t, strings.HasPrefix(lines[0], "Component"))
		assert.Contains(t, out.String(), "npm/npmjs/@babel/core/7.1.0")
		assert.Equal(t, "Total: 2 components, 2 shown, 0 changed", lines[len(lines)-1])
	})

	t.Run("should print a markdown table", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		workspace := newPrintedWorkspace()

		// when
		err := printList(&out, workspace, formatMarkdown)

		// then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "| npm/npmjs/-/lodash/4.17.21 | 4.17.21 | MIT | 2021-02-20 |")
	})
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	t.Run("should keep short values", func(t *testing.T) {
		t.Parallel()

		// given
		value := "lodash"

		// when
		result := truncate(value, 10)

		// then
		assert.Equal(t, "lodash", result)
	})

	t.Run("should cut long values with an ellipsis", func(t *testing.T) {
		t.Parallel()

		// given
		value := "npm/npmjs/-/lodash/4.17.21"

		// when
		result := truncate(value, 10)

		// then
		assert.Equal(t, "npm/npm...", result)
	})
}
