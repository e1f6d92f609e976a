package rclone

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	shlex "github.com/flynn/go-shlex"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

// CloudRepository runs the rclone binary.
type CloudRepository struct {
	binary     string
	extraFlags string
}

// NewCloudRepository creates a CloudRepository invoking binary. extraFlags is
// a shell-quoted string appended to every copy invocation.
func NewCloudRepository(binary, extraFlags string) *CloudRepository {
	if binary == "" {
		binary = entities.DefaultRcloneBinary
	}
	return &CloudRepository{binary: binary, extraFlags: extraFlags}
}

var _ repositories.CloudRepository = (*CloudRepository)(nil)

// Configure replaces the binary and extra flags, typically from freshly
// loaded settings.
func (it *CloudRepository) Configure(binary, extraFlags string) {
	if binary != "" {
		it.binary = binary
	}
	it.extraFlags = extraFlags
}

// CreateRemote runs `rclone config create <label> <kind> user <username> pass <secret>`.
func (it *CloudRepository) CreateRemote(
	ctx context.Context,
	label, providerKind, username, secret string,
) (entities.CommandResult, error) {
	logger.Debugf("Running %s config create %s %s user %s pass ***", it.binary, label, providerKind, username)
	return it.run(ctx, "config", "create", label, providerKind, "user", username, "pass", secret)
}

// Copy runs `rclone copy [--size-only] [extra flags] <source> <destination>`.
func (it *CloudRepository) Copy(
	ctx context.Context,
	sourcePath, destination string,
	sizeOnly bool,
) (entities.CommandResult, error) {
	args := []string{"copy"}
	if sizeOnly {
		args = append(args, "--size-only")
	}

	if it.extraFlags != "" {
		extra, err := shlex.Split(it.extraFlags)
		if err != nil {
			return entities.CommandResult{}, fmt.Errorf("invalid rclone flags %q: %w", it.extraFlags, err)
		}
		args = append(args, extra...)
	}

	args = append(args, sourcePath, destination)
	logger.Debugf("Running %s %v", it.binary, args)
	return it.run(ctx, args...)
}

// run executes the binary and captures its output. A non-zero exit status is
// reported through the result, not as an error.
func (it *CloudRepository) run(ctx context.Context, args ...string) (entities.CommandResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, it.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := entities.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to run %s: %w", it.binary, err)
	}

	return result, nil
}
