//go:build !windows

package finder

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// creationTime extracts the creation timestamp from FileInfo (Unix).
// Unix exposes no portable birth time, so the inode change time is the
// closest metadata available; falls back to mod time.
func creationTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
	}
	return info.ModTime()
}

// dirIdentity returns a stable identity for a directory (device+inode)
func dirIdentity(path string, info os.FileInfo) (string, bool) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return fmt.Sprintf("%d:%d", stat.Dev, stat.Ino), true
	}
	return "", false
}
