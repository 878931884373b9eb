package main

import (
	"context"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/cdlist/internal"
)

// flagged is implemented by controllers that own subcommand flags.
type flagged interface {
	AddFlags(cmd *cobra.Command)
}

func buildRootCommand(appContext *internal.AppInternal) *cobra.Command {
	importController := appContext.GetImportController()
	settings := appContext.GetSettings()

	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "cdlist [content...]",
		Short: "Assemble, inspect and share lists of open-source components",
		Long: `Build a working list of open-source component references (npm packages,
GitHub repositories, NuGet packages, ...) together with their license and
attribution definitions, and share it as a compact link, a file or a gist.

Usage modes:
  cdlist npm/npmjs/-/lodash/4.17.21    Import components (same as "cdlist import")
  cdlist load <token|url>              Open a shared list
  cdlist share -f package-lock.json    Print a share link for a lock file
  cdlist serve                         Expose the list over HTTP`,
		PersistentPreRunE: func(command *cobra.Command, _ []string) error {
			if verbose, _ := command.Flags().GetBool("verbose"); verbose {
				logger.SetLevel(logger.DebugLevel)
			}
			configPath, _ := command.Flags().GetString("config")
			return settings.Load(configPath)
		},
		RunE: func(command *cobra.Command, args []string) error {
			files, _ := command.Flags().GetStringArray("file")
			if len(args) == 0 && len(files) == 0 {
				return command.Help()
			}
			importController.Execute(command, args)
			return nil
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")
	importController.AddFlags(cmd)

	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Run: func(command *cobra.Command, arguments []string) {
				ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		if fc, ok := ctrl.(flagged); ok {
			fc.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject controllers via DIG
	appContext := injectAppContext()
	cobraRoot := buildRootCommand(appContext)

	// Add all subcommands
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.ExecuteContext(context.Background()); err != nil {
		logger.Fatalf("Error executing 'cdlist': %s", err)
	}
}
