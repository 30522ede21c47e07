package testutil

import (
	"io"
	"io/fs"
	"sync"

	"github.com/arthur-debert/annexfs/pkg/types"
)

// Op names a FaultyFS operation.
type Op string

const (
	OpMkdir     Op = "mkdir"
	OpChmod     Op = "chmod"
	OpSymlink   Op = "symlink"
	OpRename    Op = "rename"
	OpRemove    Op = "remove"
	OpRemoveAll Op = "removeall"
	OpOpenFile  Op = "openfile"
)

// Fault decides whether a call to an operation fails. It receives the
// primary path argument and the 1-based count of calls to that operation.
type Fault func(path string, call int) error

// FaultyFS wraps a types.FS and injects errors into chosen operations.
type FaultyFS struct {
	types.FS

	mu     sync.Mutex
	faults map[Op]Fault
	calls  map[Op]int
}

// NewFaultyFS wraps inner.
func NewFaultyFS(inner types.FS) *FaultyFS {
	return &FaultyFS{
		FS:     inner,
		faults: make(map[Op]Fault),
		calls:  make(map[Op]int),
	}
}

// Inject installs fault for op, replacing any previous one.
func (f *FaultyFS) Inject(op Op, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[op] = fault
}

// Clear removes all faults.
func (f *FaultyFS) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = make(map[Op]Fault)
}

// Calls returns how many times op was invoked.
func (f *FaultyFS) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// FailOn returns a fault that fails every call whose path equals path.
func FailOn(path string, err error) Fault {
	return func(p string, _ int) error {
		if p == path {
			return err
		}
		return nil
	}
}

// FailAlways returns a fault that fails every call.
func FailAlways(err error) Fault {
	return func(string, int) error { return err }
}

func (f *FaultyFS) check(op Op, path string) error {
	f.mu.Lock()
	f.calls[op]++
	call := f.calls[op]
	fault := f.faults[op]
	f.mu.Unlock()

	if fault == nil {
		return nil
	}
	if err := fault(path, call); err != nil {
		return &fs.PathError{Op: string(op), Path: path, Err: err}
	}
	return nil
}

func (f *FaultyFS) Mkdir(name string, perm fs.FileMode) error {
	if err := f.check(OpMkdir, name); err != nil {
		return err
	}
	return f.FS.Mkdir(name, perm)
}

func (f *FaultyFS) Chmod(name string, mode fs.FileMode) error {
	if err := f.check(OpChmod, name); err != nil {
		return err
	}
	return f.FS.Chmod(name, mode)
}

func (f *FaultyFS) Symlink(oldname, newname string) error {
	if err := f.check(OpSymlink, newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultyFS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}

func (f *FaultyFS) OpenFile(name string, flag int, perm fs.FileMode) (io.WriteCloser, error) {
	if err := f.check(OpOpenFile, name); err != nil {
		return nil, err
	}
	return f.FS.OpenFile(name, flag, perm)
}
