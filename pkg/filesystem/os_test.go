package filesystem

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fs := NewOS()
	assert.NotNil(t, fs)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := []byte("hello world")

	w, err := fs.OpenFile(testFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = w.Write(testContent)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	info, err := fs.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "test.txt", info.Name())
	assert.Equal(t, int64(len(testContent)), info.Size())

	r, err := fs.Open(testFile)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, testContent, content)

	subDir := filepath.Join(tmpDir, "sub", "dir")
	require.NoError(t, fs.MkdirAll(subDir, 0755))
	assert.Error(t, fs.Mkdir(subDir, 0755), "Mkdir on an existing directory must fail")

	entries, err := fs.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, fs.Remove(testFile))
	_, err = fs.Stat(testFile)
	assert.True(t, os.IsNotExist(err))
}

func TestSymlinks(t *testing.T) {
	fs := NewOS()
	tmpDir := t.TempDir()

	target := filepath.Join(tmpDir, "target")
	require.NoError(t, fs.MkdirAll(target, 0755))
	link := filepath.Join(tmpDir, "link")
	require.NoError(t, fs.Symlink(target, link))

	info, err := fs.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	dest, err := fs.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, dest)

	resolved, err := fs.EvalSymlinks(link)
	require.NoError(t, err)
	canonicalTarget, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, canonicalTarget, resolved)
}

func TestChmodAndLchtimes(t *testing.T) {
	fs := NewOS()
	tmpDir := t.TempDir()

	dir := filepath.Join(tmpDir, "entry")
	require.NoError(t, fs.Mkdir(dir, 0755))
	require.NoError(t, fs.Chmod(dir, 0555))
	info, err := fs.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0555), info.Mode().Perm())
	require.NoError(t, fs.Chmod(dir, 0755))

	when := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, fs.Lchtimes(dir, when, when))
	info, err = fs.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(when))
	assert.True(t, AccessTime(info).Equal(when))

	// Lchtimes on a symlink must leave the target alone.
	link := filepath.Join(tmpDir, "link")
	require.NoError(t, fs.Symlink(dir, link))
	later := when.Add(time.Hour)
	require.NoError(t, fs.Lchtimes(link, later, later))
	info, err = fs.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(when))
}
