// pkg/testutil/environment.go
// DEPENDENCIES: Real filesystem under t.TempDir
// PURPOSE: Orchestrate isolated annex test environments

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/annexfs/pkg/datastore"
	"github.com/arthur-debert/annexfs/pkg/filesystem"
	"github.com/arthur-debert/annexfs/pkg/identity"
	"github.com/arthur-debert/annexfs/pkg/types"
	"github.com/stretchr/testify/require"
)

// TestEnvironment provides an annex root and a user home in a temp dir.
type TestEnvironment struct {
	// Root is the canonical annex root.
	Root string
	// Home stands in for the user's home directory.
	Home string

	FS    types.FS
	Store datastore.DataStore

	t *testing.T
}

// NewTestEnvironment creates the directories and registers a cleanup that
// unlocks anything left read-only so t.TempDir can remove it.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	env := &TestEnvironment{
		Root: filepath.Join(base, "annex"),
		Home: filepath.Join(base, "home"),
		FS:   filesystem.NewOS(),
		t:    t,
	}
	require.NoError(t, os.MkdirAll(env.Root, 0755))
	require.NoError(t, os.MkdirAll(env.Home, 0755))
	t.Setenv("HOME", env.Home)

	env.Store = env.NewStore(identity.Random())

	t.Cleanup(func() { MakeTreeWritable(base) })
	return env
}

// NewStore returns a datastore over the environment's root with ids.
func (e *TestEnvironment) NewStore(ids identity.Source) datastore.DataStore {
	return datastore.New(datastore.Options{Root: e.Root, FS: e.FS, IDs: ids})
}

// HomePath joins elem onto the home directory.
func (e *TestEnvironment) HomePath(elem ...string) string {
	return filepath.Join(append([]string{e.Home}, elem...)...)
}

// WriteFile creates a file with content, creating parents as needed.
func (e *TestEnvironment) WriteFile(path, content string) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
}

// EntryDirs lists the names of the entry directories under the root.
func (e *TestEnvironment) EntryDirs() []string {
	e.t.Helper()
	entries, err := os.ReadDir(e.Root)
	require.NoError(e.t, err)
	names := []string{}
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// MakeTreeWritable gives owner rwx back to every directory under dir.
func MakeTreeWritable(dir string) {
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			_ = os.Chmod(path, info.Mode().Perm()|0700)
		}
		return nil
	})
}
