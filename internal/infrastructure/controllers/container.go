package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewImportController); err != nil {
		return err
	}
	if err := container.Provide(NewLoadController); err != nil {
		return err
	}
	if err := container.Provide(NewShareController); err != nil {
		return err
	}
	if err := container.Provide(NewSearchController); err != nil {
		return err
	}
	if err := container.Provide(NewServeController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	importController *ImportController,
	loadController *LoadController,
	shareController *ShareController,
	searchController *SearchController,
	serveController *ServeController,
) *[]entities.Controller {
	return &[]entities.Controller{
		importController,
		loadController,
		shareController,
		searchController,
		serveController,
	}
}
