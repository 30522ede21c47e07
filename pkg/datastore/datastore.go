package datastore

import "github.com/arthur-debert/annexfs/pkg/types"

// DataStore manages annexfs entries on the filesystem.
type DataStore interface {
	// Root returns the canonical annex root.
	Root() string

	// Reserve creates a new, unlocked entry whose payload will be named
	// basename. hint is passed to the identifier source.
	Reserve(hint, basename string) (*types.Entry, error)

	// Lock makes the entry's enclosing directory read-only.
	Lock(entry *types.Entry) error

	// Unlock restores owner write permission on the enclosing directory.
	Unlock(entry *types.Entry) error

	// Destroy removes an unlocked entry and everything in it.
	Destroy(entry *types.Entry) error

	// Discard unlocks the entry if needed and destroys it.
	Discard(entry *types.Entry) error

	// LocateByLink reconstructs the entry a link points at.
	LocateByLink(linkPath string) (*types.Entry, error)

	// List returns every entry directory under the root.
	List() ([]Record, error)
}

// Record is one entry directory as found on disk, with the names of all of
// its children so that damaged entries can be reported.
type Record struct {
	Entry    types.Entry
	Children []string
}
