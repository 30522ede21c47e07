// pkg/transfer/transfer_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem
// PURPOSE: Test metadata-preserving copies and size verification

package transfer_test

import (
	"os"
	"syscall"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/annexfs/pkg/filesystem"
	"github.com/arthur-debert/annexfs/pkg/testutil"
	"github.com/arthur-debert/annexfs/pkg/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
}

func TestCopyFile(t *testing.T) {
	fs := filesystem.NewOS()
	c := transfer.NewCopier(fs)
	dir := t.TempDir()

	src := filepath.Join(dir, "report.pdf")
	writeFile(t, src, "quarterly numbers", 0640)
	mtime := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	dst := filepath.Join(dir, "copy.pdf")
	require.NoError(t, c.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "quarterly numbers", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime))

	t.Run("refuses existing destination", func(t *testing.T) {
		assert.Error(t, c.CopyFile(src, dst))
	})

	t.Run("refuses directories", func(t *testing.T) {
		assert.Error(t, c.CopyFile(dir, filepath.Join(t.TempDir(), "x")))
	})
}

func TestCopyFileKeepsSymlink(t *testing.T) {
	fs := filesystem.NewOS()
	c := transfer.NewCopier(fs)
	dir := t.TempDir()

	target := filepath.Join(dir, "target.txt")
	writeFile(t, target, "data", 0644)
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	dst := filepath.Join(dir, "copied-link")
	require.NoError(t, c.CopyFile(link, dst))

	got, err := os.Readlink(dst)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestCopyTree(t *testing.T) {
	fs := filesystem.NewOS()
	c := transfer.NewCopier(fs)
	dir := t.TempDir()

	src := filepath.Join(dir, "photos")
	writeFile(t, filepath.Join(src, "a.jpg"), "aaaa", 0644)
	writeFile(t, filepath.Join(src, "2020", "b.jpg"), "bbbbbb", 0600)
	writeFile(t, filepath.Join(src, "locked", "c.jpg"), "c", 0444)
	require.NoError(t, os.Symlink("a.jpg", filepath.Join(src, "latest")))
	require.NoError(t, os.Chmod(filepath.Join(src, "locked"), 0555))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(src, "locked"), 0755) })

	dst := filepath.Join(dir, "copy")
	require.NoError(t, c.CopyTree(src, dst))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(dst, "locked"), 0755) })

	data, err := os.ReadFile(filepath.Join(dst, "2020", "b.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "bbbbbb", string(data))

	info, err := os.Stat(filepath.Join(dst, "locked"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0555), info.Mode().Perm())

	latest, err := os.Lstat(filepath.Join(dst, "latest"))
	require.NoError(t, err)
	assert.True(t, latest.Mode().IsRegular(), "links inside a tree are copied as what they point at")
	data, err = os.ReadFile(filepath.Join(dst, "latest"))
	require.NoError(t, err)
	assert.Equal(t, "aaaa", string(data))

	srcSize, dstSize, ok, err := transfer.Verify(fs, src, dst)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(4+6+1+4), srcSize)
	assert.Equal(t, srcSize, dstSize)
}

func TestCopyTreeFollowsLinksOutOfTheTree(t *testing.T) {
	fs := filesystem.NewOS()
	c := transfer.NewCopier(fs)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "shared", "cfg.txt"), "shared content", 0640)
	writeFile(t, filepath.Join(dir, "shared", "themes", "dark.css"), "body{}", 0644)
	src := filepath.Join(dir, "project")
	writeFile(t, filepath.Join(src, "main.go"), "package main", 0644)
	require.NoError(t, os.Symlink("../shared/cfg.txt", filepath.Join(src, "cfg")))
	require.NoError(t, os.Symlink("../shared/themes", filepath.Join(src, "themes")))

	dst := filepath.Join(dir, "copy")
	require.NoError(t, c.CopyTree(src, dst))
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "shared")))

	data, err := os.ReadFile(filepath.Join(dst, "cfg"))
	require.NoError(t, err)
	assert.Equal(t, "shared content", string(data))
	info, err := os.Lstat(filepath.Join(dst, "cfg"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())

	info, err = os.Lstat(filepath.Join(dst, "themes"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	data, err = os.ReadFile(filepath.Join(dst, "themes", "dark.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))
}

func TestCopyTreeRejectsUnfollowableLinks(t *testing.T) {
	fs := filesystem.NewOS()
	c := transfer.NewCopier(fs)

	t.Run("dangling", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "project")
		writeFile(t, filepath.Join(src, "main.go"), "package main", 0644)
		require.NoError(t, os.Symlink("../gone.txt", filepath.Join(src, "cfg")))

		err := c.CopyTree(src, filepath.Join(dir, "copy"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot follow")
	})

	t.Run("cycle", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "project")
		writeFile(t, filepath.Join(src, "sub", "main.go"), "package main", 0644)
		require.NoError(t, os.Symlink("..", filepath.Join(src, "sub", "up")))

		err := c.CopyTree(src, filepath.Join(dir, "copy"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symlink cycle")

		_, err = transfer.Size(fs, src)
		assert.Error(t, err)
	})
}

func TestSize(t *testing.T) {
	fs := filesystem.NewOS()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "tree", "one"), "12345", 0644)
	writeFile(t, filepath.Join(dir, "tree", "nested", "deeper", "two"), "123", 0644)
	require.NoError(t, os.Symlink("/nonexistent/target", filepath.Join(dir, "tree", "dangling")))
	writeFile(t, filepath.Join(dir, "single"), "1234567", 0644)
	writeFile(t, filepath.Join(dir, "linked", "own"), "12", 0644)
	require.NoError(t, os.Symlink("../single", filepath.Join(dir, "linked", "outside")))
	require.NoError(t, os.Symlink("../tree/nested", filepath.Join(dir, "linked", "nested")))

	tests := []struct {
		name string
		path string
		want int64
	}{
		{"regular file", filepath.Join(dir, "single"), 7},
		{"tree sums regular files only", filepath.Join(dir, "tree"), 8},
		{"tree counts link targets", filepath.Join(dir, "linked"), 2 + 7 + 3},
		{"top-level link is not followed", filepath.Join(dir, "linked", "outside"), int64(len("../single"))},
		{"empty directory", t.TempDir(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transfer.Size(fs, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := transfer.Size(fs, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestVerifyDetectsMismatch(t *testing.T) {
	fs := filesystem.NewOS()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "a"), "full payload", 0644)
	writeFile(t, filepath.Join(dir, "b"), "full", 0644)

	srcSize, dstSize, ok, err := transfer.Verify(fs, filepath.Join(dir, "a"), filepath.Join(dir, "b"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(12), srcSize)
	assert.Equal(t, int64(4), dstSize)
}

func TestRemoveTree(t *testing.T) {
	fs := filesystem.NewOS()
	dir := t.TempDir()

	tree := filepath.Join(dir, "tree")
	writeFile(t, filepath.Join(tree, "ro", "inner", "file"), "x", 0444)
	require.NoError(t, os.Chmod(filepath.Join(tree, "ro", "inner"), 0500))
	require.NoError(t, os.Chmod(filepath.Join(tree, "ro"), 0555))

	require.NoError(t, transfer.RemoveTree(fs, tree))
	assert.NoDirExists(t, tree)

	t.Run("missing path is not an error", func(t *testing.T) {
		assert.NoError(t, transfer.RemoveTree(fs, filepath.Join(dir, "missing")))
		assert.NoError(t, transfer.MakeWritable(fs, filepath.Join(dir, "missing")))
	})
}

func TestRemoveTreeRetriesAfterFailedDelete(t *testing.T) {
	dir := t.TempDir()
	tree := filepath.Join(dir, "tree")
	writeFile(t, filepath.Join(tree, "file"), "x", 0644)

	faulty := testutil.NewFaultyFS(filesystem.NewOS())
	faulty.Inject(testutil.OpRemoveAll, func(_ string, call int) error {
		if call == 1 {
			return syscall.EBUSY
		}
		return nil
	})

	require.NoError(t, transfer.RemoveTree(faulty, tree))
	assert.NoDirExists(t, tree)
	assert.Equal(t, 2, faulty.Calls(testutil.OpRemoveAll))
}

func TestOps(t *testing.T) {
	dir := t.TempDir()
	faulty := testutil.NewFaultyFS(filesystem.NewOS())
	ops := transfer.NewOps(faulty)

	src := filepath.Join(dir, "notes.txt")
	writeFile(t, src, "notes", 0600)

	t.Run("copy", func(t *testing.T) {
		dst := filepath.Join(dir, "copy.txt")
		require.NoError(t, ops.Copy(src, dst))
		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "notes", string(data))
		assert.Error(t, ops.Copy(src, dst), "destination exists")
	})

	t.Run("link keeps relative targets", func(t *testing.T) {
		link := filepath.Join(dir, "link")
		require.NoError(t, ops.Link("notes.txt", link))
		got, err := os.Readlink(link)
		require.NoError(t, err)
		assert.Equal(t, "notes.txt", got)
		assert.Error(t, ops.Link("notes.txt", link), "link exists")
	})

	t.Run("rename goes through the wrapped filesystem", func(t *testing.T) {
		moved := filepath.Join(dir, "moved.txt")
		faulty.Inject(testutil.OpRename, testutil.FailOn(src, syscall.EXDEV))
		err := ops.Rename(src, moved)
		require.Error(t, err)
		assert.FileExists(t, src)
		assert.NoFileExists(t, moved, "no copy fallback")

		faulty.Clear()
		require.NoError(t, ops.Rename(src, moved))
		assert.NoFileExists(t, src)
		assert.FileExists(t, moved)
	})

	t.Run("delete", func(t *testing.T) {
		tree := filepath.Join(dir, "tree")
		writeFile(t, filepath.Join(tree, "a", "b"), "b", 0644)
		require.NoError(t, ops.Delete(tree))
		assert.NoDirExists(t, tree)
	})
}
