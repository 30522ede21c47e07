// Package types defines the core types and interfaces shared by the annexfs
// packages: the Entry that describes one annexed object, its lock state and
// payload kind, and the FS interface every filesystem mutation goes through.
package types
