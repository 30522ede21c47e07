// Package paths normalises user-supplied paths for annexfs.
//
// It handles:
//
//   - Home directory expansion (~ and ~/...)
//   - Making paths absolute and clean without following symlinks, since the
//     path being resolved may itself be an annexfs link
//   - Splitting a path into the components that decide whether a transfer
//     moves a single file or a whole directory tree
//   - Lexical containment checks against the annex root
//
// # Usage
//
//	import "github.com/arthur-debert/annexfs/pkg/paths"
//
//	abs, err := paths.Resolve("~/notes")       // /home/user/notes
//	c, err := paths.Classify(fs, abs)           // {Dir: /home/user/notes, Base: notes}
//	inside := paths.IsWithin("/annex", "/annex/ab12/notes") // true
package paths
