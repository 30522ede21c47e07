package transfer

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/annexfs/pkg/types"
)

// Size returns the size used for transfer verification. For a directory it
// is the sum of the sizes of all regular files below it, reached through
// symlinks the same way CopyTree reaches them. For anything else it is the
// size reported by Lstat.
func Size(fsys types.FS, path string) (int64, error) {
	info, err := fsys.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}
	return treeSize(fsys, path, newAncestry())
}

func treeSize(fsys types.FS, dir string, seen ancestry) (int64, error) {
	leave, err := seen.enter(fsys, dir)
	if err != nil {
		return 0, err
	}
	defer leave()

	children, err := fsys.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, child := range children {
		childPath := filepath.Join(dir, child.Name())
		info, err := fsys.Stat(childPath)
		if err != nil {
			// Dangling links hold no content.
			if os.IsNotExist(err) && child.Type()&fs.ModeSymlink != 0 {
				continue
			}
			return 0, err
		}
		switch {
		case info.IsDir():
			sub, err := treeSize(fsys, childPath, seen)
			if err != nil {
				return 0, err
			}
			total += sub
		case info.Mode().IsRegular():
			total += info.Size()
		}
	}
	return total, nil
}

// Verify compares the sizes of src and dst and returns both.
func Verify(fsys types.FS, src, dst string) (srcSize, dstSize int64, ok bool, err error) {
	if srcSize, err = Size(fsys, src); err != nil {
		return 0, 0, false, err
	}
	if dstSize, err = Size(fsys, dst); err != nil {
		return srcSize, 0, false, err
	}
	return srcSize, dstSize, srcSize == dstSize, nil
}
