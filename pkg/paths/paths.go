package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/types"
)

// EnvHome is the standard home directory variable
const EnvHome = "HOME"

// maxPathLength is the common filesystem limit for a full path
const maxPathLength = 4096

// Components is the result of Classify.
//
// For a path naming a file, Dir is the file's parent directory, Base the
// parent's basename and File the file's own name. For a directory, or a path
// that does not exist yet, Dir is the path itself, Base its basename and File
// is empty.
type Components struct {
	Dir  string
	Base string
	File string
}

// IsFile reports whether the classified path named a file.
func (c Components) IsFile() bool {
	return c.File != ""
}

// Path returns the full path the components were derived from.
func (c Components) Path() string {
	if c.IsFile() {
		return filepath.Join(c.Dir, c.File)
	}
	return c.Dir
}

// Name returns the basename of the classified path.
func (c Components) Name() string {
	if c.IsFile() {
		return c.File
	}
	return c.Base
}

// Resolve normalizes a path by expanding home, making it absolute,
// and cleaning it. Symlinks are not followed.
func Resolve(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}
	if strings.Contains(path, "\x00") {
		return "", errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}
	if len(path) > maxPathLength {
		return "", errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", path)
	}

	return filepath.Clean(abs), nil
}

// Classify splits path into its transfer components. Anything that is not a
// directory (regular files, symlinks, special files) is treated as a single
// file so that links are carried as links rather than followed.
func Classify(fsys types.FS, path string) (Components, error) {
	info, err := fsys.Lstat(path)
	if err != nil && !os.IsNotExist(err) {
		return Components{}, errors.Wrapf(err, errors.ErrStorage, "failed to inspect %s", path)
	}

	if err == nil && !info.IsDir() {
		dir := filepath.Dir(path)
		return Components{
			Dir:  dir,
			Base: filepath.Base(dir),
			File: filepath.Base(path),
		}, nil
	}

	return Components{
		Dir:  path,
		Base: filepath.Base(path),
	}, nil
}

// IsWithin reports whether path is root itself or lies below it. The check
// is lexical; callers pass canonical paths when symlinks matter.
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ExpandHome expands ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			// Can't expand, return as-is
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
