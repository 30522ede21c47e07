package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/annexfs/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
)

// synthFS exposes a types.FS to synthfs operations. Names are absolute
// paths and symlink targets are written verbatim.
type synthFS struct {
	fs types.FS
}

// NewSynth wraps fsys so synthfs operations run against it.
func NewSynth(fsys types.FS) synthfs.FullFileSystem {
	return &synthFS{fs: fsys}
}

func (s *synthFS) Open(name string) (fs.File, error) {
	rc, err := s.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return &synthFile{ReadCloser: rc, name: name, fs: s.fs}, nil
}

// Stat follows links. A dangling link is still a path that exists, so it is
// reported by its Lstat info.
func (s *synthFS) Stat(name string) (fs.FileInfo, error) {
	info, err := s.fs.Stat(name)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		if linfo, lerr := s.fs.Lstat(name); lerr == nil {
			return linfo, nil
		}
	}
	return info, err
}

// WriteFile creates name exclusively.
func (s *synthFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	out, err := s.fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (s *synthFS) MkdirAll(path string, perm fs.FileMode) error {
	return s.fs.MkdirAll(path, perm)
}

func (s *synthFS) Remove(name string) error {
	return s.fs.Remove(name)
}

func (s *synthFS) RemoveAll(name string) error {
	return s.fs.RemoveAll(name)
}

func (s *synthFS) Symlink(oldname, newname string) error {
	return s.fs.Symlink(oldname, newname)
}

func (s *synthFS) Readlink(name string) (string, error) {
	return s.fs.Readlink(name)
}

func (s *synthFS) Rename(oldpath, newpath string) error {
	return s.fs.Rename(oldpath, newpath)
}

type synthFile struct {
	io.ReadCloser
	name string
	fs   types.FS
}

func (f *synthFile) Stat() (fs.FileInfo, error) {
	return f.fs.Stat(f.name)
}
