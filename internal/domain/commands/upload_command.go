package commands

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

// Upload is the interface of the upload dispatcher.
type Upload interface {
	Execute(ctx context.Context, mirrorRoot, remoteLabel string) entities.UploadResult
	ConfigureRemote(ctx context.Context, remoteLabel, username, secret string) error
	UseTool(binary, extraFlags string)
}

// UploadCommand forwards the local mirror to the cloud remote using the
// external sync tool, comparing by size only like the staleness check does.
type UploadCommand struct {
	cloud repositories.CloudRepository
}

// NewUploadCommand creates a new UploadCommand over the given cloud repository.
func NewUploadCommand(cloud repositories.CloudRepository) *UploadCommand {
	return &UploadCommand{cloud: cloud}
}

// UseTool points the dispatcher at a specific rclone binary and extra flags.
func (it *UploadCommand) UseTool(binary, extraFlags string) {
	it.cloud.Configure(binary, extraFlags)
}

// Execute copies mirrorRoot to "<remoteLabel>:SwitchSaves/Installed".
func (it *UploadCommand) Execute(ctx context.Context, mirrorRoot, remoteLabel string) entities.UploadResult {
	destination := remoteLabel + ":" + entities.CloudDestinationPath
	upload := entities.UploadResult{Destination: destination}

	result, err := it.cloud.Copy(ctx, mirrorRoot, destination, true)
	if err != nil {
		upload.Diagnostics = err.Error()
		return upload
	}

	logger.Debugf("rclone copy exited with %d", result.ExitCode)
	if !result.Succeeded() {
		upload.Diagnostics = diagnostics(result)
		return upload
	}

	upload.Success = true
	return upload
}

// ConfigureRemote creates the cloud remote. Any failure wraps entities.ErrConfig.
func (it *UploadCommand) ConfigureRemote(ctx context.Context, remoteLabel, username, secret string) error {
	result, err := it.cloud.CreateRemote(ctx, remoteLabel, entities.CloudProviderKind, username, secret)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrConfig, err)
	}
	if !result.Succeeded() {
		return fmt.Errorf("%w: rclone config create exited with %d:\n%s",
			entities.ErrConfig, result.ExitCode, diagnostics(result))
	}
	return nil
}

// diagnostics prefers stderr, falling back to stdout for tools that report there.
func diagnostics(result entities.CommandResult) string {
	if text := strings.TrimSpace(result.Stderr); text != "" {
		return text
	}
	return strings.TrimSpace(result.Stdout)
}
