package testutil

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/annexfs/pkg/transfer"
)

// TruncatingCopier copies like the real copier and then silently drops the
// last byte of every regular file whose destination path satisfies Match
// (all files when Match is nil). It simulates a short copy that reports
// success.
type TruncatingCopier struct {
	transfer.Copier
	Match func(dst string) bool
}

// NewTruncatingCopier wraps inner.
func NewTruncatingCopier(inner transfer.Copier) *TruncatingCopier {
	return &TruncatingCopier{Copier: inner}
}

func (c *TruncatingCopier) CopyFile(src, dst string) error {
	if err := c.Copier.CopyFile(src, dst); err != nil {
		return err
	}
	return c.truncate(dst)
}

func (c *TruncatingCopier) CopyTree(src, dst string) error {
	if err := c.Copier.CopyTree(src, dst); err != nil {
		return err
	}
	return filepath.Walk(dst, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return c.truncate(path)
	})
}

func (c *TruncatingCopier) truncate(path string) error {
	if c.Match != nil && !c.Match(path) {
		return nil
	}
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return err
	}
	if err := os.Chmod(path, info.Mode().Perm()|0200); err != nil {
		return err
	}
	return os.Truncate(path, info.Size()-1)
}

// FailingCopier returns Err from every copy without touching dst.
type FailingCopier struct {
	Err error
}

func (c FailingCopier) CopyFile(string, string) error { return c.Err }
func (c FailingCopier) CopyTree(string, string) error { return c.Err }
