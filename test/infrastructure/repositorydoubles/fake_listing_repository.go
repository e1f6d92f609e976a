//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

// FakeListingRepository hands out a preconfigured connection.
type FakeListingRepository struct {
	Conn       *FakeConnection
	ConnectErr error

	// spy: calls received
	ConnectCalls []ConnectCall
}

// ConnectCall records a single invocation of Connect.
type ConnectCall struct {
	Host    string
	Port    int
	Timeout time.Duration
}

var _ repositories.ListingRepository = (*FakeListingRepository)(nil)

func (f *FakeListingRepository) Connect(
	_ context.Context, host string, port int, timeout time.Duration,
) (repositories.Connection, error) {
	f.ConnectCalls = append(f.ConnectCalls, ConnectCall{Host: host, Port: port, Timeout: timeout})
	if f.ConnectErr != nil {
		return nil, f.ConnectErr
	}
	return f.Conn, nil
}

// FakeConnection is an in-memory remote tree that behaves like a stateful
// FTP session: listing and fetching move the current directory.
type FakeConnection struct {
	dirs  map[string][]entities.RemoteEntry
	files map[string][]byte
	cwd   string

	// --- failure injection (keyed by full remote path) ---
	ChangeDirErrs map[string]error
	ListErrs      map[string]error
	FetchErrs     map[string]error
	CloseErr      error

	// --- spy ---
	ListedPaths  []string
	FetchedPaths []string
	CloseCount   int
}

var _ repositories.Connection = (*FakeConnection)(nil)

// NewFakeConnection creates an empty tree containing only "/".
func NewFakeConnection() *FakeConnection {
	return &FakeConnection{
		dirs:          map[string][]entities.RemoteEntry{"/": {}},
		files:         map[string][]byte{},
		cwd:           "/",
		ChangeDirErrs: map[string]error{},
		ListErrs:      map[string]error{},
		FetchErrs:     map[string]error{},
	}
}

// WithDir adds the directory p (and any missing parents) in call order.
func (f *FakeConnection) WithDir(p string) *FakeConnection {
	p = path.Clean(p)
	if _, ok := f.dirs[p]; ok || p == "/" {
		return f
	}
	parent := path.Dir(p)
	f.WithDir(parent)
	f.dirs[parent] = append(f.dirs[parent], entities.RemoteEntry{Name: path.Base(p), Kind: entities.KindDirectory})
	f.dirs[p] = []entities.RemoteEntry{}
	return f
}

// WithFile adds a file whose listed size equals len(content).
func (f *FakeConnection) WithFile(dir, name string, content []byte) *FakeConnection {
	return f.WithEntry(dir, entities.RemoteEntry{Name: name, Kind: entities.KindFile, Size: int64(len(content))}, content)
}

// WithEntry adds an arbitrary entry; content is served for files only.
func (f *FakeConnection) WithEntry(dir string, entry entities.RemoteEntry, content []byte) *FakeConnection {
	dir = path.Clean(dir)
	f.WithDir(dir)
	f.dirs[dir] = append(f.dirs[dir], entry)
	if entry.Kind == entities.KindFile {
		f.files[path.Join(dir, entry.Name)] = content
	}
	return f
}

// SetContent replaces the bytes served for a file without touching its listing.
func (f *FakeConnection) SetContent(dir, name string, content []byte) {
	full := path.Join(path.Clean(dir), name)
	f.files[full] = content
	entries := f.dirs[path.Clean(dir)]
	for i := range entries {
		if entries[i].Name == name {
			entries[i].Size = int64(len(content))
		}
	}
}

func (f *FakeConnection) CurrentDirectory() string { return f.cwd }

func (f *FakeConnection) ChangeDirectory(p string) error {
	p = path.Clean(p)
	if err, ok := f.ChangeDirErrs[p]; ok {
		return fmt.Errorf("%w: cwd %q: %v", entities.ErrPath, p, err)
	}
	if _, ok := f.dirs[p]; !ok {
		return fmt.Errorf("%w: cwd %q: no such directory", entities.ErrPath, p)
	}
	f.cwd = p
	return nil
}

func (f *FakeConnection) ListDirectory(_ context.Context, p string) ([]entities.RemoteEntry, error) {
	if err := f.ChangeDirectory(p); err != nil {
		return nil, err
	}
	f.ListedPaths = append(f.ListedPaths, f.cwd)
	if err, ok := f.ListErrs[f.cwd]; ok {
		return nil, fmt.Errorf("%w: list %q: %v", entities.ErrProtocol, f.cwd, err)
	}
	return append([]entities.RemoteEntry(nil), f.dirs[f.cwd]...), nil
}

// FetchFile writes the file content into sink. An injected fetch error is
// returned after the first byte, leaving a truncated destination behind.
func (f *FakeConnection) FetchFile(_ context.Context, dirPath, name string, sink io.Writer) (int64, error) {
	if err := f.ChangeDirectory(dirPath); err != nil {
		return 0, err
	}
	full := path.Join(f.cwd, name)

	content, ok := f.files[full]
	if !ok {
		return 0, fmt.Errorf("%w: retr %q: no such file", entities.ErrTransfer, name)
	}

	if err, failing := f.FetchErrs[full]; failing {
		written := 0
		if len(content) > 0 {
			written, _ = sink.Write(content[:1])
		}
		return int64(written), fmt.Errorf("%w: retr %q: %v", entities.ErrTransfer, name, err)
	}

	written, err := sink.Write(content)
	if err != nil {
		return int64(written), fmt.Errorf("%w: retr %q: %v", entities.ErrTransfer, name, err)
	}
	f.FetchedPaths = append(f.FetchedPaths, full)
	return int64(written), nil
}

func (f *FakeConnection) Close() error {
	f.CloseCount++
	return f.CloseErr
}
