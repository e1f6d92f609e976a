//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"time"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
)

// SettingsBuilder helps create test settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	host           string
	port           int
	remoteLabel    string
	email          string
	localRoot      string
	remoteRoot     string
	connectTimeout time.Duration
	downloadBudget float64
	uploadStart    float64
}

// NewSettingsBuilder creates a new settings builder with valid defaults.
func NewSettingsBuilder() *SettingsBuilder {
	b := &SettingsBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.defaults()
	return b
}

func (b *SettingsBuilder) defaults() {
	b.host = "192.168.1.20"
	b.port = entities.DefaultPort
	b.remoteLabel = entities.DefaultRemoteLabel
	b.email = "player@example.com"
	b.localRoot = "/backups"
	b.remoteRoot = entities.DefaultRemoteRoot
	b.connectTimeout = entities.DefaultConnectTimeout
	b.downloadBudget = entities.DefaultDownloadBudget
	b.uploadStart = entities.DefaultUploadStartProgress
}

// WithHost sets the FTP host.
func (b *SettingsBuilder) WithHost(host string) *SettingsBuilder {
	b.host = host
	return b
}

// WithPort sets the FTP port.
func (b *SettingsBuilder) WithPort(port int) *SettingsBuilder {
	b.port = port
	return b
}

// WithRemoteLabel sets the rclone remote name.
func (b *SettingsBuilder) WithRemoteLabel(label string) *SettingsBuilder {
	b.remoteLabel = label
	return b
}

// WithLocalRoot sets the local backup folder.
func (b *SettingsBuilder) WithLocalRoot(root string) *SettingsBuilder {
	b.localRoot = root
	return b
}

// WithDownloadBudget sets the share of progress reserved for downloading.
func (b *SettingsBuilder) WithDownloadBudget(budget float64) *SettingsBuilder {
	b.downloadBudget = budget
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	return &entities.Settings{
		Host:                b.host,
		Port:                b.port,
		RemoteLabel:         b.remoteLabel,
		CredentialEmail:     b.email,
		LocalRoot:           b.localRoot,
		RemoteRoot:          b.remoteRoot,
		ConnectTimeout:      b.connectTimeout,
		RcloneBinary:        entities.DefaultRcloneBinary,
		DownloadBudget:      b.downloadBudget,
		UploadStartProgress: b.uploadStart,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.defaults()
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	clone := *b
	clone.BaseBuilder = b.BaseBuilder.Clone().(*testkit.BaseBuilder)
	return &clone
}
