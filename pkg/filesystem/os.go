package filesystem

import (
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/annexfs/pkg/types"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// osFS implements types.FS on top of afero's OS filesystem
type osFS struct {
	fs afero.Fs
}

// NewOS creates a new OS filesystem implementation
func NewOS() types.FS {
	return &osFS{fs: afero.NewOsFs()}
}

func (o *osFS) Stat(name string) (fs.FileInfo, error) {
	return o.fs.Stat(name)
}

func (o *osFS) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := o.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(name)
		return info, err
	}
	return o.fs.Stat(name)
}

func (o *osFS) Open(name string) (io.ReadCloser, error) {
	return o.fs.Open(name)
}

func (o *osFS) OpenFile(name string, flag int, perm fs.FileMode) (io.WriteCloser, error) {
	return o.fs.OpenFile(name, flag, perm)
}

func (o *osFS) Mkdir(name string, perm fs.FileMode) error {
	return o.fs.Mkdir(name, perm)
}

func (o *osFS) MkdirAll(path string, perm fs.FileMode) error {
	return o.fs.MkdirAll(path, perm)
}

func (o *osFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := afero.ReadDir(o.fs, name)
	if err != nil {
		return nil, err
	}
	dirEntries := make([]fs.DirEntry, len(entries))
	for i, entry := range entries {
		dirEntries[i] = fs.FileInfoToDirEntry(entry)
	}
	return dirEntries, nil
}

func (o *osFS) Chmod(name string, mode fs.FileMode) error {
	return o.fs.Chmod(name, mode)
}

func (o *osFS) Lchtimes(name string, atime, mtime time.Time) error {
	ts := []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(mtime.UnixNano()),
	}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, name, ts, unix.AT_SYMLINK_NOFOLLOW); err != nil {
		return &fs.PathError{Op: "lchtimes", Path: name, Err: err}
	}
	return nil
}

func (o *osFS) Symlink(oldname, newname string) error {
	if linker, ok := o.fs.(afero.Linker); ok {
		return linker.SymlinkIfPossible(oldname, newname)
	}
	return &fs.PathError{Op: "symlink", Path: newname, Err: afero.ErrNoSymlink}
}

func (o *osFS) Readlink(name string) (string, error) {
	if reader, ok := o.fs.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(name)
	}
	return "", &fs.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

func (o *osFS) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

func (o *osFS) Rename(oldpath, newpath string) error {
	return o.fs.Rename(oldpath, newpath)
}

func (o *osFS) Remove(name string) error {
	return o.fs.Remove(name)
}

func (o *osFS) RemoveAll(path string) error {
	return o.fs.RemoveAll(path)
}
