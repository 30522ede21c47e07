package transfer

import (
	"fmt"

	"github.com/arthur-debert/annexfs/pkg/types"
)

// ancestry holds the canonical paths of the directories on the current walk
// path. Following links can lead back up the tree; entering a directory
// already on the path is an error.
type ancestry map[string]bool

func newAncestry() ancestry {
	return ancestry{}
}

// enter records dir and returns the func that forgets it again.
func (a ancestry) enter(fsys types.FS, dir string) (func(), error) {
	canonical, err := fsys.EvalSymlinks(dir)
	if err != nil {
		return nil, err
	}
	if a[canonical] {
		return nil, fmt.Errorf("symlink cycle: %s leads back to %s", dir, canonical)
	}
	a[canonical] = true
	return func() { delete(a, canonical) }, nil
}
