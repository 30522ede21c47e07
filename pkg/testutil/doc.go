// Package testutil provides utilities for testing annexfs components.
//
// Key components:
//   - TestEnvironment: an isolated annex root and home directory under
//     t.TempDir, with the OS filesystem and a datastore wired to them
//   - FaultyFS: a types.FS wrapper that fails or alters chosen operations,
//     used to drive rollback paths
//   - Tree snapshots: capture a directory tree (names, kinds, content, link
//     targets) to assert that an operation left no trace
//
// Tests in this repository use the real filesystem: the behaviour under test
// is permission bits, symlinks and partial failures, which in-memory
// filesystems do not model.
package testutil
