//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/savemirror/internal/domain/commands"
	"github.com/rios0rios0/savemirror/internal/domain/entities"
	doubles "github.com/rios0rios0/savemirror/test/infrastructure/repositorydoubles"
)

func TestUploadCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should copy the mirror to the fixed destination in size-only mode", func(t *testing.T) {
		t.Parallel()

		// given
		cloud := &doubles.SpyCloudRepository{}
		cmd := commands.NewUploadCommand(cloud)

		// when
		result := cmd.Execute(context.Background(), "/backups/Installed", "mega")

		// then
		assert.True(t, result.Success)
		assert.Equal(t, "mega:SwitchSaves/Installed", result.Destination)
		require.Len(t, cloud.CopyCalls, 1)
		assert.Equal(t, doubles.CopyCall{
			Source:      "/backups/Installed",
			Destination: "mega:SwitchSaves/Installed",
			SizeOnly:    true,
		}, cloud.CopyCalls[0])
	})

	t.Run("should carry stderr when the tool exits non-zero", func(t *testing.T) {
		t.Parallel()

		// given
		cloud := &doubles.SpyCloudRepository{
			CopyResult: entities.CommandResult{ExitCode: 1, Stderr: "Failed to copy: quota exceeded\n"},
		}
		cmd := commands.NewUploadCommand(cloud)

		// when
		result := cmd.Execute(context.Background(), "/backups/Installed", "mega")

		// then
		assert.False(t, result.Success)
		assert.Equal(t, "Failed to copy: quota exceeded", result.Diagnostics)
	})

	t.Run("should fail when the tool cannot be started", func(t *testing.T) {
		t.Parallel()

		// given
		cloud := &doubles.SpyCloudRepository{CopyErr: errors.New("exec: \"rclone\": executable file not found")}
		cmd := commands.NewUploadCommand(cloud)

		// when
		result := cmd.Execute(context.Background(), "/backups/Installed", "mega")

		// then
		assert.False(t, result.Success)
		assert.Contains(t, result.Diagnostics, "executable file not found")
	})
}

func TestUploadCommandConfigureRemote(t *testing.T) {
	t.Parallel()

	t.Run("should create a mega remote with the given credentials", func(t *testing.T) {
		t.Parallel()

		// given
		cloud := &doubles.SpyCloudRepository{}
		cmd := commands.NewUploadCommand(cloud)

		// when
		err := cmd.ConfigureRemote(context.Background(), "backup", "me@example.com", "s3cret")

		// then
		require.NoError(t, err)
		assert.Equal(t, []doubles.CreateRemoteCall{{
			Label: "backup", ProviderKind: "mega", Username: "me@example.com", Secret: "s3cret",
		}}, cloud.CreateRemoteCall)
	})

	t.Run("should wrap ErrConfig with the tool diagnostics on a non-zero exit", func(t *testing.T) {
		t.Parallel()

		// given
		cloud := &doubles.SpyCloudRepository{
			CreateResult: entities.CommandResult{ExitCode: 1, Stderr: "couldn't login"},
		}
		cmd := commands.NewUploadCommand(cloud)

		// when
		err := cmd.ConfigureRemote(context.Background(), "backup", "me@example.com", "wrong")

		// then
		require.ErrorIs(t, err, entities.ErrConfig)
		assert.Contains(t, err.Error(), "couldn't login")
	})
}

func TestUploadCommandUseTool(t *testing.T) {
	t.Parallel()

	// given
	cloud := &doubles.SpyCloudRepository{}
	cmd := commands.NewUploadCommand(cloud)

	// when
	cmd.UseTool("/opt/rclone", "--transfers 2")

	// then
	assert.Equal(t, "/opt/rclone", cloud.Binary)
	assert.Equal(t, "--transfers 2", cloud.ExtraFlags)
}
