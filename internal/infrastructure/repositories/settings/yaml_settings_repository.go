package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

// LegacySettingsPath is where the original scripts stored their settings.
const LegacySettingsPath = "~/.switch_backup_config.json"

const (
	dirPerm  = 0o755
	filePerm = 0o600
)

// YAMLSettingsRepository stores settings as YAML on an afero filesystem.
type YAMLSettingsRepository struct {
	fs afero.Fs
}

// NewYAMLSettingsRepository creates a new YAMLSettingsRepository over fs.
func NewYAMLSettingsRepository(fs afero.Fs) *YAMLSettingsRepository {
	return &YAMLSettingsRepository{fs: fs}
}

var _ repositories.SettingsRepository = (*YAMLSettingsRepository)(nil)

// Load reads the settings at path. Keys absent from the file keep their defaults.
func (it *YAMLSettingsRepository) Load(path string) (*entities.Settings, error) {
	cfg := entities.NewDefaultSettings()

	data, err := afero.ReadFile(it.fs, entities.ExpandHome(path))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
	}

	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: failed to parse settings file %q: %v", entities.ErrConfig, path, unmarshalErr)
	}
	cfg.ApplyDefaults()

	return cfg, nil
}

// Save writes settings to path, creating the parent directory.
func (it *YAMLSettingsRepository) Save(path string, settings *entities.Settings) error {
	path = entities.ExpandHome(path)

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if mkErr := it.fs.MkdirAll(filepath.Dir(path), dirPerm); mkErr != nil {
		return fmt.Errorf("failed to create settings directory: %w", mkErr)
	}
	if writeErr := afero.WriteFile(it.fs, path, data, filePerm); writeErr != nil {
		return fmt.Errorf("failed to write settings file %q: %w", path, writeErr)
	}

	return nil
}

// legacySettings mirrors the JSON written by the original scripts. JSON is
// valid YAML, so the YAML decoder reads it directly.
type legacySettings struct {
	IP     string `yaml:"ip"`
	Port   string `yaml:"port"`
	Rclone string `yaml:"rclone"`
	Email  string `yaml:"email"`
	Local  string `yaml:"local"`
}

// LoadLegacy converts the legacy JSON settings at path.
func (it *YAMLSettingsRepository) LoadLegacy(path string) (*entities.Settings, error) {
	data, err := afero.ReadFile(it.fs, entities.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy settings %q: %w", path, err)
	}

	var legacy legacySettings
	if unmarshalErr := yaml.Unmarshal(data, &legacy); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: failed to parse legacy settings %q: %v", entities.ErrConfig, path, unmarshalErr)
	}

	cfg := entities.NewDefaultSettings()
	cfg.Host = strings.TrimSpace(legacy.IP)
	cfg.RemoteLabel = strings.TrimSpace(legacy.Rclone)
	cfg.CredentialEmail = strings.TrimSpace(legacy.Email)
	cfg.LocalRoot = strings.TrimSpace(legacy.Local)
	if port := strings.TrimSpace(legacy.Port); port != "" {
		parsed, convErr := strconv.Atoi(port)
		if convErr != nil {
			return nil, fmt.Errorf("%w: invalid port number %q", entities.ErrConfig, port)
		}
		cfg.Port = parsed
	}
	cfg.ApplyDefaults()

	return cfg, nil
}
