package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// SearchController handles the "search" subcommand.
type SearchController struct {
	command   commands.Definitions
	workspace *entities.Workspace
}

// NewSearchController creates a new SearchController.
func NewSearchController(command commands.Definitions, workspace *entities.Workspace) *SearchController {
	return &SearchController{command: command, workspace: workspace}
}

// GetBind returns the Cobra command metadata for the search controller.
func (it *SearchController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "search [pattern]",
		Short: "Browse definitions and print the matching components",
		Long: `Search the definition API. The first page replaces the list; every
further page (--pages) is appended using the continuation token of the
previous one. With --suggest the pattern is completed instead.`,
	}
}

// Execute runs the search.
func (it *SearchController) Execute(cmd *cobra.Command, args []string) {
	defer attachNotices(it.workspace)()
	ctx := cmd.Context()
	output, _ := cmd.Flags().GetString("output")
	suggest, _ := cmd.Flags().GetBool("suggest")
	pages, _ := cmd.Flags().GetInt("pages")

	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	if suggest {
		suggestions, err := it.command.Suggest(ctx, pattern)
		if err != nil {
			logger.Errorf("Suggestion failed: %v", err)
			return
		}
		for _, suggestion := range suggestions {
			cmd.Println(suggestion)
		}
		return
	}

	query := it.queryFromFlags(cmd, pattern)
	for page := 0; page < max(pages, 1); page++ {
		result, err := it.command.Browse(ctx, query)
		if err != nil {
			logger.Errorf("Search failed: %v", err)
			break
		}
		logger.Infof("Page %d: %d definitions", page+1, len(result.Data))
		if result.ContinuationToken == "" {
			break
		}
		query.ContinuationToken = result.ContinuationToken
	}

	if err := printList(cmd.OutOrStdout(), it.workspace, output); err != nil {
		logger.Errorf("Failed to print list: %v", err)
	}
}

func (it *SearchController) queryFromFlags(cmd *cobra.Command, pattern string) entities.SearchQuery {
	componentType, _ := cmd.Flags().GetString("type")
	provider, _ := cmd.Flags().GetString("provider")
	license, _ := cmd.Flags().GetString("license")
	sortField, _ := cmd.Flags().GetString("sort")
	descending, _ := cmd.Flags().GetBool("desc")

	return entities.SearchQuery{
		Pattern:  pattern,
		Type:     componentType,
		Provider: provider,
		License:  license,
		Sort:     sortField,
		SortDesc: descending,
	}
}

// AddFlags adds the search-specific flags to the given Cobra command.
func (it *SearchController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "Only this component type (npm, maven, git, ...)")
	cmd.Flags().String("provider", "", "Only this provider (npmjs, github, ...)")
	cmd.Flags().String("license", "", "Only this declared license (SPDX expression)")
	cmd.Flags().String("sort", "", "Server-side sort field (releaseDate, license, ...)")
	cmd.Flags().Bool("desc", false, "Sort descending")
	cmd.Flags().Int("pages", 1, "Number of result pages to load")
	cmd.Flags().Bool("suggest", false, "Print coordinate suggestions for the pattern instead")
	cmd.Flags().StringP("output", "o", formatTable, "Output format: table, json, or markdown")
}
