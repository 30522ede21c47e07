package transfer

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/annexfs/pkg/types"
)

// RemoveTree removes path and everything below it. A missing path is not
// an error. Read-only directories block a recursive delete, so when the
// first attempt leaves path behind every directory in the tree gets owner
// rwx back and the removal is retried once.
func RemoveTree(fsys types.FS, path string) error {
	if _, err := fsys.Lstat(path); os.IsNotExist(err) {
		return nil
	}
	if err := NewOps(fsys).Delete(path); err == nil {
		if _, err := fsys.Lstat(path); os.IsNotExist(err) {
			return nil
		}
	}
	// The retry reports the error that matters; permission repair is best
	// effort.
	_ = MakeWritable(fsys, path)
	return fsys.RemoveAll(path)
}

// MakeWritable walks dir top-down adding owner rwx to every directory that
// lacks it. A missing dir is not an error.
func MakeWritable(fsys types.FS, dir string) error {
	info, err := fsys.Lstat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}
	if info.Mode().Perm()&0700 != 0700 {
		if err := fsys.Chmod(dir, info.Mode().Perm()|0700); err != nil {
			return err
		}
	}

	children, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	var firstErr error
	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		if err := MakeWritable(fsys, filepath.Join(dir, child.Name())); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
