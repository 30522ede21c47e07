//go:build !linux && !darwin

package filesystem

import (
	"io/fs"
	"time"
)

// AccessTime returns the modification time; access times are not exposed
// on this platform.
func AccessTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
