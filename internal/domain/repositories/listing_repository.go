package repositories

import (
	"context"
	"io"
	"time"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
)

// ListingRepository opens connections to the remote file host.
type ListingRepository interface {
	// Connect dials host:port, waiting at most timeout, and logs in
	// anonymously. Failures wrap entities.ErrConnection or entities.ErrAuth.
	Connect(ctx context.Context, host string, port int, timeout time.Duration) (Connection, error)
}

// Connection is a single stateful session with the remote host. Exactly one
// directory is current at a time, so a Connection must not be shared between
// goroutines.
type Connection interface {
	// CurrentDirectory returns the directory the session is positioned in.
	CurrentDirectory() string

	// ChangeDirectory moves the session cursor. Failures wrap entities.ErrPath.
	ChangeDirectory(path string) error

	// ListDirectory changes into path and lists it. Failures wrap
	// entities.ErrPath or entities.ErrProtocol.
	ListDirectory(ctx context.Context, path string) ([]entities.RemoteEntry, error)

	// FetchFile streams dirPath/name into sink and returns the byte count.
	// Failures wrap entities.ErrTransfer (or entities.ErrPath for dirPath).
	FetchFile(ctx context.Context, dirPath, name string, sink io.Writer) (int64, error)

	Close() error
}
