// Package annex implements the annexfs transfer engine.
//
// An Engine moves content between the user's filesystem and the annex root.
// Each annexed object is an entry directory AnnexRoot/<id> holding a single
// payload named after the original path, and the original path is replaced
// by a symlink to that payload.
//
// Four operations mutate the filesystem:
//
//   - Create makes an empty, locked directory entry and links path to it.
//   - Delete removes an entry and its link.
//   - TransferFrom copies existing content into a new entry, verifies the
//     copy by size and swaps the original for a link.
//   - TransferTo copies an entry's payload back over its link and removes
//     the entry.
//
// Every mutation runs inside guarded regions (see package guard). A failed
// step group is rolled back before the region closes, and an interrupt that
// arrives inside a region is reported only after the region's commit or
// rollback has finished. When an operation spans two regions and the
// interrupt lands in the first one, the engine undoes the first region
// before returning, so an interrupted operation always leaves either the
// pre-operation or the post-operation state on disk.
//
// Rollback never trades data for tidiness: when undoing a step fails, the
// engine keeps whatever copy survived and returns ROLLBACK_FAILED naming it.
//
// Status and List are read-only views used by the CLI.
package annex
