package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// ShareController handles the "share" subcommand.
type ShareController struct {
	importer  commands.Import
	command   commands.Share
	workspace *entities.Workspace
}

// NewShareController creates a new ShareController.
func NewShareController(
	importer commands.Import,
	command commands.Share,
	workspace *entities.Workspace,
) *ShareController {
	return &ShareController{importer: importer, command: command, workspace: workspace}
}

// GetBind returns the Cobra command metadata for the share controller.
func (it *ShareController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "share [content...]",
		Short: "Build a shareable link, file or bundle from components",
		Long: `Import the arguments like "import" does, then print a share URL that
reopens the same list with "load". Optionally save the list as a JSON file
(--save) or as a new remote bundle on the configured store (--bundle).`,
	}
}

// Execute imports the arguments and shares the resulting list.
func (it *ShareController) Execute(cmd *cobra.Command, args []string) {
	defer attachNotices(it.workspace)()
	ctx := cmd.Context()
	savePath, _ := cmd.Flags().GetString("save")
	bundleName, _ := cmd.Flags().GetString("bundle")
	sortField, _ := cmd.Flags().GetString("sort")
	descending, _ := cmd.Flags().GetBool("desc")

	if failures := importInputs(ctx, cmd, it.importer, args); failures > 0 {
		logger.Warnf("%d inputs could not be imported", failures)
	}
	if sortField != "" {
		it.workspace.List.Transform(&entities.SortBy{Field: sortField, Descending: descending}, it.workspace.List.Filter())
	}

	payload := it.command.BuildPayload()
	if len(payload.Coordinates) == 0 {
		logger.Error("Nothing to share: the list is empty")
		return
	}

	link, err := it.command.ShareURL(payload)
	if err != nil {
		logger.Errorf("Failed to build share URL: %v", err)
		return
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), link)

	if savePath != "" {
		if _, saveErr := it.command.SaveFile(savePath, payload); saveErr != nil {
			logger.Errorf("Failed to save list: %v", saveErr)
		}
	}
	if bundleName != "" {
		location, bundleErr := it.command.SaveBundle(ctx, bundleName, payload)
		if bundleErr != nil {
			logger.Errorf("Failed to create bundle: %v", bundleErr)
			return
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), location)
	}
}

// AddFlags adds the share-specific flags to the given Cobra command.
func (it *ShareController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("file", "f", nil, "Load a component list or lock file (repeatable)")
	cmd.Flags().String("save", "", "Also save the list to this JSON file")
	cmd.Flags().String("bundle", "", "Also store the list as a new remote bundle with this name")
	cmd.Flags().String("sort", "", "Sort field stored with the list (e.g. name, revision, license)")
	cmd.Flags().Bool("desc", false, "Store a descending sort")
}
