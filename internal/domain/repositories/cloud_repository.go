package repositories

import (
	"context"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
)

// CloudRepository drives the external cloud-sync tool. A non-nil error means
// the tool could not be run at all; a non-zero exit is reported via the result.
type CloudRepository interface {
	// Configure selects the tool binary and the extra flags passed to Copy.
	Configure(binary, extraFlags string)

	CreateRemote(
		ctx context.Context, label, providerKind, username, secret string,
	) (entities.CommandResult, error)

	Copy(ctx context.Context, sourcePath, destination string, sizeOnly bool) (entities.CommandResult, error)
}
