// Package datastore owns the on-disk representation of annexfs entries.
//
// Every entry is a directory named by an identifier directly under the annex
// root, holding exactly one payload named after the path it was annexed
// from:
//
//	<root>/<id>/<basename>
//
// There is no manifest or index. Entries are discovered from the directory
// structure and from the targets of the links that point into it. The
// enclosing directory's write permission is the lock: 0555 for committed
// entries, 0755 while an entry is being built or torn down.
package datastore
