package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	logger "github.com/sirupsen/logrus"
)

const (
	DefaultPort                = 5000
	DefaultRemoteLabel         = "mega"
	DefaultLocalRoot           = "~/switch_saves"
	DefaultRemoteRoot          = "/Installed games"
	DefaultConnectTimeout      = 10 * time.Second
	DefaultRcloneBinary        = "rclone"
	DefaultDownloadBudget      = 0.5
	DefaultUploadStartProgress = 0.7

	// MirrorSubdir is the directory under LocalRoot that holds the mirror.
	MirrorSubdir = "Installed"
	// CloudDestinationPath is appended to the remote label to form the upload destination.
	CloudDestinationPath = "SwitchSaves/Installed"
	// CloudProviderKind is the rclone backend used when creating the remote.
	CloudProviderKind = "mega"
	// SecretEnvVar is consulted when no secret flag is given.
	SecretEnvVar = "SAVEMIRROR_SECRET"
)

const maxPort = 65535

// Settings is the persisted configuration of savemirror. The cloud secret is
// supplied per run and never written to disk.
type Settings struct {
	Host                string        `yaml:"host"`
	Port                int           `yaml:"port"`
	RemoteLabel         string        `yaml:"remote_label"`
	CredentialEmail     string        `yaml:"credential_email"`
	LocalRoot           string        `yaml:"local_root"`
	RemoteRoot          string        `yaml:"remote_root"`
	ConnectTimeout      time.Duration `yaml:"connect_timeout"`
	RcloneBinary        string        `yaml:"rclone_binary"`
	RcloneFlags         string        `yaml:"rclone_flags"`
	DownloadBudget      float64       `yaml:"download_budget"`
	UploadStartProgress float64       `yaml:"upload_start_progress"`
	LogFile             string        `yaml:"log_file"`
}

// NewDefaultSettings returns settings populated with the built-in defaults.
func NewDefaultSettings() *Settings {
	return &Settings{
		Port:                DefaultPort,
		RemoteLabel:         DefaultRemoteLabel,
		LocalRoot:           DefaultLocalRoot,
		RemoteRoot:          DefaultRemoteRoot,
		ConnectTimeout:      DefaultConnectTimeout,
		RcloneBinary:        DefaultRcloneBinary,
		DownloadBudget:      DefaultDownloadBudget,
		UploadStartProgress: DefaultUploadStartProgress,
	}
}

// ApplyDefaults fills zero-valued fields with the built-in defaults.
func (s *Settings) ApplyDefaults() {
	defaults := NewDefaultSettings()
	if s.Port == 0 {
		s.Port = defaults.Port
	}
	if s.RemoteLabel == "" {
		s.RemoteLabel = defaults.RemoteLabel
	}
	if s.LocalRoot == "" {
		s.LocalRoot = defaults.LocalRoot
	}
	if s.RemoteRoot == "" {
		s.RemoteRoot = defaults.RemoteRoot
	}
	if s.ConnectTimeout == 0 {
		s.ConnectTimeout = defaults.ConnectTimeout
	}
	if s.RcloneBinary == "" {
		s.RcloneBinary = defaults.RcloneBinary
	}
	if s.DownloadBudget == 0 {
		s.DownloadBudget = defaults.DownloadBudget
	}
	if s.UploadStartProgress == 0 {
		s.UploadStartProgress = defaults.UploadStartProgress
	}
}

// MirrorRoot is the local directory that receives the remote tree.
func (s *Settings) MirrorRoot() string {
	return filepath.Join(ExpandHome(s.LocalRoot), MirrorSubdir)
}

// CloudDestination is the rclone destination of the upload step.
func (s *Settings) CloudDestination() string {
	return s.RemoteLabel + ":" + CloudDestinationPath
}

// Address returns host:port of the remote file host.
func (s *Settings) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks the settings required before any network I/O happens.
// Every failure wraps ErrConfig.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Host) == "" {
		return fmt.Errorf("%w: host is required", ErrConfig)
	}
	if s.Port < 1 || s.Port > maxPort {
		return fmt.Errorf("%w: invalid port number %d", ErrConfig, s.Port)
	}
	if strings.TrimSpace(s.RemoteLabel) == "" {
		return fmt.Errorf("%w: remote label is required", ErrConfig)
	}
	if strings.TrimSpace(s.LocalRoot) == "" {
		return fmt.Errorf("%w: local root is required", ErrConfig)
	}
	if s.RemoteRoot == "" {
		return fmt.Errorf("%w: remote root is required", ErrConfig)
	}
	if s.DownloadBudget <= 0 || s.DownloadBudget > s.UploadStartProgress || s.UploadStartProgress > 1 {
		return fmt.Errorf(
			"%w: progress split must satisfy 0 < download_budget (%.2f) <= upload_start_progress (%.2f) <= 1",
			ErrConfig, s.DownloadBudget, s.UploadStartProgress,
		)
	}
	return nil
}

// ExpandHome resolves a leading "~" in path. The path is returned unchanged
// when the home directory cannot be determined.
func ExpandHome(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// FindSettingsFile searches for a settings file in standard locations.
func FindSettingsFile() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{".", ".config"}
	if homeDir != "" {
		locations = append(locations, homeDir, filepath.Join(homeDir, ".config"))
	}

	patterns := []string{
		".savemirror.yaml",
		".savemirror.yml",
		"savemirror.yaml",
		"savemirror.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("settings file not found in default locations")
}

// DefaultSettingsPath is where settings are written when none was found.
func DefaultSettingsPath() string {
	return ExpandHome("~/.savemirror.yaml")
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// ResolveSecret expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the secret from it.
func ResolveSecret(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if info, statErr := os.Stat(resolved); statErr == nil && info.Mode().IsRegular() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
