//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

// StubSettingsRepository implements repositories.SettingsRepository in memory.
type StubSettingsRepository struct {
	Settings  *entities.Settings
	LoadErr   error
	SaveErr   error
	Legacy    *entities.Settings
	LegacyErr error

	// spy
	LoadedPaths []string
	SavedPaths  []string
	Saved       []*entities.Settings
}

var _ repositories.SettingsRepository = (*StubSettingsRepository)(nil)

func (s *StubSettingsRepository) Load(path string) (*entities.Settings, error) {
	s.LoadedPaths = append(s.LoadedPaths, path)
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.Settings == nil {
		return entities.NewDefaultSettings(), nil
	}
	copied := *s.Settings
	return &copied, nil
}

func (s *StubSettingsRepository) Save(path string, settings *entities.Settings) error {
	s.SavedPaths = append(s.SavedPaths, path)
	s.Saved = append(s.Saved, settings)
	return s.SaveErr
}

func (s *StubSettingsRepository) LoadLegacy(_ string) (*entities.Settings, error) {
	if s.LegacyErr != nil {
		return nil, s.LegacyErr
	}
	if s.Legacy == nil {
		return nil, entities.ErrConfig
	}
	copied := *s.Legacy
	return &copied, nil
}
