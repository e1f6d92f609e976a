package repositories

import (
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"go.uber.org/dig"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	domainRepos "github.com/rios0rios0/savemirror/internal/domain/repositories"
	ftpRepo "github.com/rios0rios0/savemirror/internal/infrastructure/repositories/ftp"
	"github.com/rios0rios0/savemirror/internal/infrastructure/repositories/logsink"
	"github.com/rios0rios0/savemirror/internal/infrastructure/repositories/mirror"
	"github.com/rios0rios0/savemirror/internal/infrastructure/repositories/rclone"
	"github.com/rios0rios0/savemirror/internal/infrastructure/repositories/settings"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Shared infrastructure
	if err := container.Provide(func() afero.Fs {
		return afero.NewOsFs()
	}); err != nil {
		return err
	}
	if err := container.Provide(clockwork.NewRealClock); err != nil {
		return err
	}

	// Adapters bound directly to their domain ports
	if err := container.Provide(func() domainRepos.ListingRepository {
		return ftpRepo.NewListingRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(fs afero.Fs) domainRepos.MirrorRepository {
		return mirror.NewRepository(fs)
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.CloudRepository {
		return rclone.NewCloudRepository(entities.DefaultRcloneBinary, "")
	}); err != nil {
		return err
	}
	if err := container.Provide(func(fs afero.Fs) domainRepos.SettingsRepository {
		return settings.NewYAMLSettingsRepository(fs)
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.EventSink {
		return logsink.NewLogrusEventSink()
	}); err != nil {
		return err
	}

	return nil
}
