// Package filesystem provides filesystem implementations for annexfs.
//
// This package contains the OS implementation of the types.FS interface,
// built on afero's OsFs, plus helpers for the metadata that io/fs does not
// expose portably.
package filesystem
