//go:build unit

package controllers_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/infrastructure/controllers"
	"github.com/rios0rios0/cdlist/test/domain/commanddoubles"
)

func newImportCommand(t *testing.T, controller *controllers.ImportController, stdin string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{Use: "import"}
	controller.AddFlags(cmd)
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetContext(t.Context())
	return cmd, &out
}

func TestImportController(t *testing.T) {
	t.Parallel()

	t.Run("should import every argument and print the list", func(t *testing.T) {
		t.Parallel()

		// given
		importer := &commanddoubles.StubImportCommand{}
		controller := controllers.NewImportController(importer, entities.NewWorkspace())
		cmd, out := newImportCommand(t, controller, "")

		// when
		controller.Execute(cmd, []string{"npm/npmjs/-/lodash/4.17.21", "https://github.com/lodash/lodash"})

		// then
		assert.Equal(t, []string{"npm/npmjs/-/lodash/4.17.21", "https://github.com/lodash/lodash"}, importer.ImportedTexts)
		assert.Contains(t, out.String(), "The list is empty.")
	})

	t.Run("should read stdin for a dash argument", func(t *testing.T) {
		t.Parallel()

		// given
		importer := &commanddoubles.StubImportCommand{}
		controller := controllers.NewImportController(importer, entities.NewWorkspace())
		cmd, _ := newImportCommand(t, controller, `{"lockfileVersion":1}`)

		// when
		controller.Execute(cmd, []string{"-"})

		// then
		assert.Equal(t, []string{`{"lockfileVersion":1}`}, importer.ImportedTexts)
	})

	t.Run("should pass files with their content type", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "list.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"coordinates":[]}`), 0o600))
		importer := &commanddoubles.StubImportCommand{}
		controller := controllers.NewImportController(importer, entities.NewWorkspace())
		cmd, _ := newImportCommand(t, controller, "")
		require.NoError(t, cmd.Flags().Set("file", path))

		// when
		controller.Execute(cmd, nil)

		// then
		require.Len(t, importer.ImportedFiles, 1)
		require.Len(t, importer.ImportedFiles[0], 1)
		assert.Equal(t, "list.json", importer.ImportedFiles[0][0].Name)
		assert.Equal(t, "application/json", importer.ImportedFiles[0][0].ContentType)
	})

	t.Run("should keep going after a failed import", func(t *testing.T) {
		t.Parallel()

		// given
		importer := &commanddoubles.StubImportCommand{ImportErr: errors.New("unrecognized")}
		controller := controllers.NewImportController(importer, entities.NewWorkspace())
		cmd, out := newImportCommand(t, controller, "")

		// when
		controller.Execute(cmd, []string{"one", "two"})

		// then
		assert.Len(t, importer.ImportedTexts, 2)
		assert.Contains(t, out.String(), "The list is empty.")
	})
}
