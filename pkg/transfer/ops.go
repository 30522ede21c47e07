package transfer

import (
	"context"

	"github.com/arthur-debert/annexfs/pkg/filesystem"
	"github.com/arthur-debert/annexfs/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
)

// Ops runs single filesystem steps as synthfs operations against a
// types.FS. Each call is its own synthfs run, validated against the state
// left by the previous one.
type Ops struct {
	fs  synthfs.FullFileSystem
	sfs *synthfs.SynthFS
}

// NewOps returns Ops working through fsys.
func NewOps(fsys types.FS) *Ops {
	return &Ops{fs: filesystem.NewSynth(fsys), sfs: synthfs.New()}
}

// Copy writes the content of the file src resolves to into the new file
// dst, with the source permission bits.
func (o *Ops) Copy(src, dst string) error {
	return o.run(o.sfs.Copy(src, dst))
}

// Link creates the symlink link pointing at target.
func (o *Ops) Link(target, link string) error {
	return o.run(o.sfs.CreateSymlink(target, link))
}

// Rename moves src to dst with a single rename. It never falls back to
// copying, so src and dst must share a filesystem.
func (o *Ops) Rename(src, dst string) error {
	return o.run(o.sfs.CustomOperation("rename", func(_ context.Context, fsys synthfs.FileSystem) error {
		return fsys.Rename(src, dst)
	}))
}

// Delete removes path and, for a directory, everything below it.
func (o *Ops) Delete(path string) error {
	return o.run(o.sfs.Delete(path))
}

func (o *Ops) run(ops ...synthfs.Operation) error {
	_, err := synthfs.Run(context.Background(), o.fs, ops...)
	return err
}
