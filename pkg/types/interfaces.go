package types

import (
	"io"
	"io/fs"
	"time"
)

// FS is the filesystem interface required for annexfs operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
	OpenFile(name string, flag int, perm fs.FileMode) (io.WriteCloser, error)

	// Directory operations
	Mkdir(name string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Metadata operations. Lchtimes does not follow a trailing symlink.
	Chmod(name string, mode fs.FileMode) error
	Lchtimes(name string, atime, mtime time.Time) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	EvalSymlinks(path string) (string, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error
}
