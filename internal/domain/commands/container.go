package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	if err := container.Provide(NewDefinitionsCommand); err != nil {
		return err
	}
	if err := container.Provide(NewListCommand); err != nil {
		return err
	}
	if err := container.Provide(NewImportCommand); err != nil {
		return err
	}
	if err := container.Provide(NewShareCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *DefinitionsCommand) Definitions {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ListCommand) Lists {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ImportCommand) Import {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ShareCommand) Share {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
