package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
	settingsRepo "github.com/rios0rios0/savemirror/internal/infrastructure/repositories/settings"
)

// addSettingsFlags registers the flags that override persisted settings.
func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "Address of the FTP host exposing the saves")
	cmd.Flags().Int("port", entities.DefaultPort, "FTP port of the host")
	cmd.Flags().String("remote", entities.DefaultRemoteLabel, "rclone remote name")
	cmd.Flags().String("email", "", "Cloud account e-mail used when creating the remote")
	cmd.Flags().String("local", entities.DefaultLocalRoot, "Local backup folder")
}

// loadSettings resolves the settings file (flag, standard locations, then the
// legacy JSON file) and applies flag overrides. It returns the settings and
// the path they should be persisted to.
func loadSettings(
	cmd *cobra.Command,
	repo repositories.SettingsRepository,
) (*entities.Settings, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if found, err := entities.FindSettingsFile(); err == nil {
			path = found
		}
	}

	var cfg *entities.Settings
	if path != "" {
		logger.Debugf("Using settings file: %s", path)
		loaded, err := repo.Load(path)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
	} else {
		path = entities.DefaultSettingsPath()
		legacy, err := repo.LoadLegacy(settingsRepo.LegacySettingsPath)
		if err == nil {
			logger.Infof("Imported settings from %s", settingsRepo.LegacySettingsPath)
			cfg = legacy
		} else {
			logger.Debugf("No legacy settings imported: %v", err)
			cfg = entities.NewDefaultSettings()
		}
	}

	applyOverrides(cmd, cfg)
	return cfg, path, nil
}

// applyOverrides copies explicitly set flags onto cfg.
func applyOverrides(cmd *cobra.Command, cfg *entities.Settings) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("remote") {
		cfg.RemoteLabel, _ = flags.GetString("remote")
	}
	if flags.Changed("email") {
		cfg.CredentialEmail, _ = flags.GetString("email")
	}
	if flags.Changed("local") {
		cfg.LocalRoot, _ = flags.GetString("local")
	}
}
