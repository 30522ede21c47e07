package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Node is one path in a Snapshot.
type Node struct {
	Kind    string
	Content string
	Target  string
	Mode    os.FileMode
}

// Snapshot maps paths relative to the snapshot root to their nodes. A
// missing root yields an empty snapshot.
type Snapshot map[string]Node

// TakeSnapshot records the tree at root without following symlinks.
func TakeSnapshot(t *testing.T, root string) Snapshot {
	t.Helper()

	snap := Snapshot{}
	if _, err := os.Lstat(root); os.IsNotExist(err) {
		return snap
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		node := Node{Mode: info.Mode().Perm()}
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			node.Kind = "link"
			node.Target, err = os.Readlink(path)
			node.Mode = 0
		case info.IsDir():
			node.Kind = "dir"
		default:
			node.Kind = "file"
			var data []byte
			data, err = os.ReadFile(path)
			node.Content = string(data)
		}
		snap[rel] = node
		return err
	})
	require.NoError(t, err)
	return snap
}
