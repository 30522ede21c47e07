// Package transfer copies payloads between user locations and annex entries
// and measures them for verification.
//
// A single file is copied with its permission bits and timestamps; a symlink
// is recreated as a symlink rather than followed. A directory tree is copied
// recursively the same way, with directory modes and times applied after the
// directory's children are in place so read-only directories can still be
// populated. Size is the integrity check: the byte size of a file, or the sum
// of the sizes of every regular file under a directory.
package transfer
