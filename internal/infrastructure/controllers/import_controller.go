package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// ImportController handles the "import" subcommand and the root command with arguments.
type ImportController struct {
	command   commands.Import
	workspace *entities.Workspace
}

// NewImportController creates a new ImportController.
func NewImportController(command commands.Import, workspace *entities.Workspace) *ImportController {
	return &ImportController{command: command, workspace: workspace}
}

// GetBind returns the Cobra command metadata for the import controller.
func (it *ImportController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "import [content...]",
		Short: "Load components from coordinates, URLs, lock files or gists",
		Long: `Classify each argument and load what it describes into the working list.

An argument may be a coordinate path (npm/npmjs/-/lodash/4.17.21), a JSON
coordinate or definition, a package-lock.json document, a saved component
list, a package page URL (GitHub, npm, NuGet, PyPI, ...), a curation pull
request URL, or a gist URL holding component lists. Use "-" to read stdin.

Definitions of every loaded component are fetched and the list is printed.`,
	}
}

// Execute imports the arguments and prints the resulting list.
func (it *ImportController) Execute(cmd *cobra.Command, args []string) {
	defer attachNotices(it.workspace)()
	output, _ := cmd.Flags().GetString("output")

	if failures := importInputs(cmd.Context(), cmd, it.command, args); failures > 0 {
		logger.Warnf("%d inputs could not be imported", failures)
	}
	if err := printList(cmd.OutOrStdout(), it.workspace, output); err != nil {
		logger.Errorf("Failed to print list: %v", err)
	}
}

// AddFlags adds the import-specific flags to the given Cobra command.
func (it *ImportController) AddFlags(cmd *cobra.Command) {
	addInputFlags(cmd)
}
