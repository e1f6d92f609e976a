package entities

import "strings"

// EntryKind classifies a remote listing record.
type EntryKind int

const (
	KindOther EntryKind = iota
	KindFile
	KindDirectory
)

// String returns the lowercase name of the kind.
func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "dir"
	default:
		return "other"
	}
}

// UnknownSize marks a RemoteEntry whose listing carried no size fact.
const UnknownSize int64 = -1

// RemoteEntry is one record of a remote directory listing.
type RemoteEntry struct {
	Name string
	Kind EntryKind
	Size int64 // bytes, meaningful only for KindFile; UnknownSize when absent
}

// IsDirectory reports whether the entry is a directory.
func (e RemoteEntry) IsDirectory() bool { return e.Kind == KindDirectory }

// IsFile reports whether the entry is a regular file.
func (e RemoteEntry) IsFile() bool { return e.Kind == KindFile }

// HasSafeName reports whether the name can be joined under a local directory
// without escaping it.
func (e RemoteEntry) HasSafeName() bool {
	if e.Name == "" || e.Name == "." || e.Name == ".." {
		return false
	}
	return !strings.ContainsAny(e.Name, `/\`)
}
