package ftp

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jlaffaye/ftp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

const anonymous = "anonymous"

// ListingRepository connects to FTP hosts with anonymous credentials.
type ListingRepository struct{}

// NewListingRepository creates a new FTP ListingRepository.
func NewListingRepository() *ListingRepository {
	return &ListingRepository{}
}

var _ repositories.ListingRepository = (*ListingRepository)(nil)

// Connect dials the host and logs in. Only this step is bounded by timeout;
// later listings and transfers can block for as long as the host stalls.
func (it *ListingRepository) Connect(
	ctx context.Context,
	host string,
	port int,
	timeout time.Duration,
) (repositories.Connection, error) {
	addr := host + ":" + strconv.Itoa(port)

	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", entities.ErrConnection, addr, err)
	}

	if loginErr := conn.Login(anonymous, anonymous); loginErr != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("%w: login to %s: %v", entities.ErrAuth, addr, loginErr)
	}

	logger.Debugf("Connected to %s", addr)
	return newConnection(serverConnAdapter{conn}), nil
}

// serverConn is the subset of *ftp.ServerConn a Connection needs.
type serverConn interface {
	ChangeDir(path string) error
	List(path string) ([]*ftp.Entry, error)
	Retr(path string) (io.ReadCloser, error)
	Quit() error
}

type serverConnAdapter struct {
	*ftp.ServerConn
}

func (a serverConnAdapter) Retr(path string) (io.ReadCloser, error) {
	return a.ServerConn.Retr(path)
}

// Connection is one FTP control session. The working directory of the
// session is tracked in cwd.
type Connection struct {
	conn serverConn
	cwd  string
}

var _ repositories.Connection = (*Connection)(nil)

func newConnection(conn serverConn) *Connection {
	return &Connection{conn: conn, cwd: "/"}
}

// CurrentDirectory returns the last directory successfully changed into.
func (it *Connection) CurrentDirectory() string {
	return it.cwd
}

// ChangeDirectory issues CWD and records the new position.
func (it *Connection) ChangeDirectory(path string) error {
	if err := it.conn.ChangeDir(path); err != nil {
		return fmt.Errorf("%w: cwd %q: %v", entities.ErrPath, path, err)
	}
	it.cwd = path
	return nil
}

// ListDirectory changes into path and lists the current directory.
func (it *Connection) ListDirectory(ctx context.Context, path string) ([]entities.RemoteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := it.ChangeDirectory(path); err != nil {
		return nil, err
	}

	raw, err := it.conn.List("")
	if err != nil {
		return nil, fmt.Errorf("%w: list %q: %v", entities.ErrProtocol, path, err)
	}

	entries := make([]entities.RemoteEntry, 0, len(raw))
	for _, e := range raw {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		entries = append(entries, toRemoteEntry(e))
	}
	return entries, nil
}

// FetchFile retrieves dirPath/name into sink.
func (it *Connection) FetchFile(ctx context.Context, dirPath, name string, sink io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if it.cwd != dirPath {
		if err := it.ChangeDirectory(dirPath); err != nil {
			return 0, err
		}
	}

	resp, err := it.conn.Retr(name)
	if err != nil {
		return 0, fmt.Errorf("%w: retr %q: %v", entities.ErrTransfer, name, err)
	}

	written, copyErr := io.Copy(sink, resp)
	closeErr := resp.Close()
	if copyErr != nil {
		return written, fmt.Errorf("%w: retr %q: %v", entities.ErrTransfer, name, copyErr)
	}
	if closeErr != nil {
		return written, fmt.Errorf("%w: retr %q: %v", entities.ErrTransfer, name, closeErr)
	}
	return written, nil
}

// Close ends the session with QUIT.
func (it *Connection) Close() error {
	return it.conn.Quit()
}

// toRemoteEntry maps a parsed listing line. The client reports a missing MLSD
// size fact as 0, so file sizes are always known here.
func toRemoteEntry(e *ftp.Entry) entities.RemoteEntry {
	switch e.Type {
	case ftp.EntryTypeFile:
		return entities.RemoteEntry{Name: e.Name, Kind: entities.KindFile, Size: int64(e.Size)} //nolint:gosec // sizes fit int64
	case ftp.EntryTypeFolder:
		return entities.RemoteEntry{Name: e.Name, Kind: entities.KindDirectory}
	default:
		return entities.RemoteEntry{Name: e.Name, Kind: entities.KindOther}
	}
}
