package filesystem

import (
	"io/fs"
	"syscall"
	"time"
)

// AccessTime returns the last access time recorded in info, falling back to
// the modification time when the platform data is unavailable.
func AccessTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Atimespec.Unix())
	}
	return info.ModTime()
}
