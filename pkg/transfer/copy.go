package transfer

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/annexfs/pkg/filesystem"
	"github.com/arthur-debert/annexfs/pkg/types"
)

// Copier copies payloads. dst must not exist.
type Copier interface {
	CopyFile(src, dst string) error
	CopyTree(src, dst string) error
}

type fsCopier struct {
	fs  types.FS
	ops *Ops
}

// NewCopier returns a Copier that works through fsys.
func NewCopier(fsys types.FS) Copier {
	return &fsCopier{fs: fsys, ops: NewOps(fsys)}
}

// CopyFile copies a single non-directory. A regular file is copied by
// content; a symlink is copied as a symlink with the same target.
func (c *fsCopier) CopyFile(src, dst string) error {
	info, err := c.fs.Lstat(src)
	if err != nil {
		return err
	}
	switch {
	case info.IsDir():
		return fmt.Errorf("%s is a directory", src)
	case info.Mode()&fs.ModeSymlink != 0:
		return c.copySymlink(src, dst, info)
	default:
		return c.copyRegular(src, dst, info)
	}
}

// CopyTree copies the directory src to dst recursively. Symlinks below src
// are followed: the copy holds the files and directories they point at, so
// links that lead outside src still resolve once src is gone.
func (c *fsCopier) CopyTree(src, dst string) error {
	info, err := c.fs.Lstat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}
	return c.copyDir(src, dst, info, newAncestry())
}

func (c *fsCopier) copyDir(src, dst string, info fs.FileInfo, seen ancestry) error {
	leave, err := seen.enter(c.fs, src)
	if err != nil {
		return err
	}
	defer leave()

	// Owner rwx while children are written; the real mode is applied last.
	if err := c.fs.Mkdir(dst, 0700); err != nil {
		return err
	}

	children, err := c.fs.ReadDir(src)
	if err != nil {
		return err
	}
	for _, child := range children {
		childSrc := filepath.Join(src, child.Name())
		childDst := filepath.Join(dst, child.Name())
		childInfo, err := c.fs.Stat(childSrc)
		if err != nil {
			return fmt.Errorf("cannot follow %s: %w", childSrc, err)
		}
		switch {
		case childInfo.IsDir():
			err = c.copyDir(childSrc, childDst, childInfo, seen)
		case childInfo.Mode().IsRegular():
			err = c.copyRegular(childSrc, childDst, childInfo)
		default:
			err = fmt.Errorf("cannot copy %s: unsupported file type %s", childSrc, childInfo.Mode().Type())
		}
		if err != nil {
			return err
		}
	}

	return c.finish(dst, info)
}

func (c *fsCopier) copySymlink(src, dst string, info fs.FileInfo) error {
	target, err := c.fs.Readlink(src)
	if err != nil {
		return err
	}
	if err := c.ops.Link(target, dst); err != nil {
		return err
	}
	return c.fs.Lchtimes(dst, filesystem.AccessTime(info), info.ModTime())
}

func (c *fsCopier) copyRegular(src, dst string, info fs.FileInfo) error {
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot copy %s: unsupported file type %s", src, info.Mode().Type())
	}
	if err := c.ops.Copy(src, dst); err != nil {
		return err
	}
	return c.finish(dst, info)
}

// finish applies the source mode and times, which the content copy does
// not carry over exactly.
func (c *fsCopier) finish(dst string, info fs.FileInfo) error {
	if err := c.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return c.fs.Lchtimes(dst, filesystem.AccessTime(info), info.ModTime())
}
