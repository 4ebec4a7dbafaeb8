//go:build windows

package finder

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// creationTime extracts the creation timestamp from FileInfo (Windows)
func creationTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, stat.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}

// dirIdentity returns a stable identity for a directory. Windows file
// IDs are not exposed through os.FileInfo, so the resolved absolute
// path stands in.
func dirIdentity(path string, info os.FileInfo) (string, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", false
	}
	return strings.ToLower(filepath.Clean(abs)), true
}
