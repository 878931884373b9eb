package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// LoadController handles the "load" subcommand.
type LoadController struct {
	command   commands.Share
	workspace *entities.Workspace
}

// NewLoadController creates a new LoadController.
func NewLoadController(command commands.Share, workspace *entities.Workspace) *LoadController {
	return &LoadController{command: command, workspace: workspace}
}

// GetBind returns the Cobra command metadata for the load controller.
func (it *LoadController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "load <token|url>",
		Short: "Open a shared component list",
		Long: `Decode a share token (or a full share URL), load the components it carries
with their filter and sort, fetch their definitions and print the list.`,
	}
}

// Execute loads the shared list given as first argument.
func (it *LoadController) Execute(cmd *cobra.Command, args []string) {
	defer attachNotices(it.workspace)()
	if len(args) == 0 {
		logger.Error("A share token or URL is required")
		return
	}
	output, _ := cmd.Flags().GetString("output")

	added, err := it.command.LoadSharedList(cmd.Context(), args[0])
	if err != nil {
		logger.Errorf("Failed to load shared list: %v", err)
		if added == 0 {
			return
		}
	}
	if printErr := printList(cmd.OutOrStdout(), it.workspace, output); printErr != nil {
		logger.Errorf("Failed to print list: %v", printErr)
	}
}

// AddFlags adds the load-specific flags to the given Cobra command.
func (it *LoadController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", formatTable, "Output format: table, json, or markdown")
}
