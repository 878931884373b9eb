package internal

import (
	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/infrastructure/controllers"
)

// AppInternal holds what the command line needs from the container.
type AppInternal struct {
	controllers      []entities.Controller
	importController *controllers.ImportController
	settings         *entities.Settings
}

// NewAppInternal creates the AppInternal from the registered controllers.
func NewAppInternal(
	registered *[]entities.Controller,
	importController *controllers.ImportController,
	settings *entities.Settings,
) *AppInternal {
	return &AppInternal{
		controllers:      *registered,
		importController: importController,
		settings:         settings,
	}
}

// GetControllers returns every subcommand controller.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}

// GetImportController returns the controller run by the root command with arguments.
func (it *AppInternal) GetImportController() *controllers.ImportController {
	return it.importController
}

// GetSettings returns the settings shared by every component.
func (it *AppInternal) GetSettings() *entities.Settings {
	return it.settings
}
