package repositories

import "io"

// MirrorRepository is the local side of the sync: it answers staleness
// questions and receives fetched bytes.
type MirrorRepository interface {
	// IsStale returns false only when a regular file exists at localPath and
	// its length equals remoteSize. Content is never compared.
	IsStale(localPath string, remoteSize int64) bool

	EnsureDir(dir string) error

	// Create opens localPath for writing, truncating existing content.
	Create(localPath string) (io.WriteCloser, error)

	Remove(localPath string) error
}
