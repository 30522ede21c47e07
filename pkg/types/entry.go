package types

import "path/filepath"

// LockState is the permission state of an entry's enclosing directory.
type LockState string

const (
	// Unlocked entries are mid-construction or mid-teardown.
	Unlocked LockState = "unlocked"
	// Locked entries are committed: the enclosing directory is read-only.
	Locked LockState = "locked"
)

// PayloadKind says whether a payload is a single file or a directory tree.
type PayloadKind string

const (
	PayloadFile    PayloadKind = "file"
	PayloadDir     PayloadKind = "dir"
	PayloadMissing PayloadKind = "missing"
)

// Entry is one annexed object: AnnexRoot/ID holding a single payload.
type Entry struct {
	ID      string      `json:"id" yaml:"id"`
	Dir     string      `json:"dir" yaml:"dir"`
	Payload string      `json:"payload" yaml:"payload"`
	Kind    PayloadKind `json:"kind" yaml:"kind"`
	State   LockState   `json:"state" yaml:"state"`
}

// Name returns the payload's basename, which equals the basename of the
// path the content was annexed from.
func (e *Entry) Name() string {
	return filepath.Base(e.Payload)
}

// IsLocked reports whether the entry is in its committed state.
func (e *Entry) IsLocked() bool {
	return e.State == Locked
}
