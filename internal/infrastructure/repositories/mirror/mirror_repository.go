package mirror

import (
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Repository is the local mirror on an afero filesystem.
type Repository struct {
	fs afero.Fs
}

// NewRepository creates a mirror Repository over fs.
func NewRepository(fs afero.Fs) *Repository {
	return &Repository{fs: fs}
}

var _ repositories.MirrorRepository = (*Repository)(nil)

// IsStale compares sizes only. A same-size file with different content is
// treated as current.
func (it *Repository) IsStale(localPath string, remoteSize int64) bool {
	if remoteSize < 0 {
		return true
	}
	info, err := it.fs.Stat(localPath)
	if err != nil || !info.Mode().IsRegular() {
		return true
	}
	return info.Size() != remoteSize
}

// EnsureDir creates dir and its parents.
func (it *Repository) EnsureDir(dir string) error {
	return it.fs.MkdirAll(dir, dirPerm)
}

// Create opens localPath for writing, replacing any previous content.
func (it *Repository) Create(localPath string) (io.WriteCloser, error) {
	return it.fs.OpenFile(localPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
}

// Remove deletes localPath; a missing file is not an error.
func (it *Repository) Remove(localPath string) error {
	if err := it.fs.Remove(localPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
