package controllers

import (
	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"go.uber.org/dig"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewBackupController); err != nil {
		return err
	}
	if err := container.Provide(NewSettingsController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	backupController *BackupController,
	settingsController *SettingsController,
) *[]entities.Controller {
	return &[]entities.Controller{
		backupController,
		settingsController,
	}
}
