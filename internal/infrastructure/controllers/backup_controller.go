package controllers

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/savemirror/internal/domain/commands"
	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
	"github.com/rios0rios0/savemirror/internal/infrastructure/repositories/logsink"
)

// BackupController handles the "backup" subcommand.
type BackupController struct {
	command  commands.Backup
	settings repositories.SettingsRepository
	exit     func(code int)
}

// NewBackupController creates a new BackupController.
func NewBackupController(command commands.Backup, settings repositories.SettingsRepository) *BackupController {
	return &BackupController{command: command, settings: settings, exit: os.Exit}
}

// GetBind returns the Cobra command metadata for the backup controller.
func (it *BackupController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "backup",
		Short: "Mirror the save folders and upload them to the cloud",
		Long: `Connect to the FTP host, download every save file that is missing or
whose size differs from the local copy, then upload the local mirror
with "rclone copy --size-only" to <remote>:SwitchSaves/Installed.

When --secret (or SAVEMIRROR_SECRET) is given the rclone remote is
created first; otherwise an existing remote is assumed.`,
	}
}

// AddFlags adds the backup-specific flags to the given Cobra command.
func (it *BackupController) AddFlags(cmd *cobra.Command) {
	addSettingsFlags(cmd)
	cmd.Flags().String("secret", "",
		"Cloud password, ${ENV_VAR} or path to a file holding it (default: $"+entities.SecretEnvVar+")")
	cmd.Flags().Bool("no-save", false, "Do not persist the effective settings")
	cmd.Flags().Bool("no-progress", false, "Do not report progress")
}

// Execute runs one backup and exits non-zero when it did not succeed.
func (it *BackupController) Execute(cmd *cobra.Command, _ []string) {
	if code := it.run(cmd); code != 0 {
		it.exit(code)
	}
}

func (it *BackupController) run(cmd *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	cfg, path, err := loadSettings(cmd, it.settings)
	if err != nil {
		logger.Errorf("Failed to load settings: %v", err)
		return 1
	}

	if cfg.LogFile != "" {
		closer := logsink.AttachLogFile(entities.ExpandHome(cfg.LogFile))
		defer closer.Close()
	}

	secret, _ := cmd.Flags().GetString("secret")
	if secret == "" {
		secret = os.Getenv(entities.SecretEnvVar)
	}
	noSave, _ := cmd.Flags().GetBool("no-save")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	opts := commands.NewBackupOptions()
	opts.Secret = entities.ResolveSecret(secret)
	opts.SettingsPath = path
	opts.PersistSettings = !noSave
	opts.ReportProgress = !noProgress

	done, startErr := it.command.Start(ctx, cfg, opts)
	if startErr != nil {
		logger.Errorf("Cannot start backup: %v", startErr)
		return 1
	}

	state := <-done
	if state == nil || !state.Success {
		if state != nil && state.Err != nil {
			logger.Errorf("Backup did not complete: %v", state.Err)
		}
		return 1
	}

	logger.Infof("Backup finished: %d files fetched, %d folders updated",
		len(state.Sync.FetchedFiles), len(state.Sync.UpdatedLabels))
	return 0
}
