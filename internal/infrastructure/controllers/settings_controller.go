package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

// SettingsController handles the "settings" subcommand.
type SettingsController struct {
	settings repositories.SettingsRepository
}

// NewSettingsController creates a new SettingsController.
func NewSettingsController(settings repositories.SettingsRepository) *SettingsController {
	return &SettingsController{settings: settings}
}

// GetBind returns the Cobra command metadata for the settings controller.
func (it *SettingsController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "settings",
		Short: "Show or store the effective settings",
		Long: `Print the settings a backup would use, after applying flag overrides.
With --write the result is saved to the settings file.`,
	}
}

// AddFlags adds the settings-specific flags to the given Cobra command.
func (it *SettingsController) AddFlags(cmd *cobra.Command) {
	addSettingsFlags(cmd)
	cmd.Flags().Bool("write", false, "Persist the effective settings")
}

// Execute prints the effective settings and optionally saves them.
func (it *SettingsController) Execute(cmd *cobra.Command, _ []string) {
	cfg, path, err := loadSettings(cmd, it.settings)
	if err != nil {
		logger.Errorf("Failed to load settings: %v", err)
		return
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		logger.Errorf("Failed to encode settings: %v", err)
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)

	if validateErr := cfg.Validate(); validateErr != nil {
		logger.Warnf("Settings are not usable yet: %v", validateErr)
	}

	if write, _ := cmd.Flags().GetBool("write"); write {
		if saveErr := it.settings.Save(path, cfg); saveErr != nil {
			logger.Errorf("Failed to save settings: %v", saveErr)
			return
		}
		logger.Infof("Settings written to %s", path)
	}
}
