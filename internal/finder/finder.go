package finder

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"dupesweep/internal/metrics"
)

// Logger interface for structured logging
type Logger interface {
	Warn(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// stdLogger wraps standard log.Logger to implement Logger interface
type stdLogger struct {
	*log.Logger
}

func (l *stdLogger) Warn(msg string, args ...interface{}) {
	l.logWithLevel("WARN", msg, args...)
}

func (l *stdLogger) Debug(msg string, args ...interface{}) {
	l.logWithLevel("DEBUG", msg, args...)
}

func (l *stdLogger) logWithLevel(level, msg string, args ...interface{}) {
	var parts []interface{}
	parts = append(parts, fmt.Sprintf("[%s]", level), msg)
	parts = append(parts, args...)
	l.Logger.Println(parts...)
}

// Finder walks directory trees collecting files whose base name
// matches a target exactly
type Finder struct {
	logger         Logger
	followSymlinks bool
}

// New creates a Finder with the given logger. followSymlinks controls
// whether symlinked directories are descended into; cycles are guarded
// either way.
func New(logger *log.Logger, followSymlinks bool) *Finder {
	if logger == nil {
		logger = log.Default()
	}
	return &Finder{
		logger:         &stdLogger{Logger: logger},
		followSymlinks: followSymlinks,
	}
}

// Scan walks the tree rooted at root depth-first and returns a record
// for every file whose base name equals targetName. Matching is
// case-sensitive byte equality. A directory's own matches precede
// those of its subdirectories; within a directory, order follows the
// filesystem listing. An unreadable directory fails the whole scan
// with no partial results; an entry whose metadata cannot be read is
// logged and skipped.
func (f *Finder) Scan(root, targetName string) ([]FileRecord, error) {
	visited := make(map[string]bool)
	if info, err := os.Stat(root); err == nil {
		if id, ok := dirIdentity(root, info); ok {
			visited[id] = true
		}
	}
	return f.scanDir(root, targetName, visited)
}

func (f *Finder) scanDir(dir, targetName string, visited map[string]bool) ([]FileRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	metrics.DirsWalkedTotal.Inc()

	var records []FileRecord
	var subdirs []string

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := f.statEntry(path, entry)
		if err != nil {
			f.logger.Warn("Skipping entry, metadata unavailable", "path", path, "error", err)
			metrics.EntriesSkippedTotal.Inc()
			continue
		}

		if info.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}

		metrics.FilesExaminedTotal.Inc()
		if entry.Name() != targetName {
			continue
		}

		created := creationTime(info)
		records = append(records, FileRecord{
			Name:         entry.Name(),
			Folder:       dir,
			CreationDate: created.UTC().Format(TimeLayout),
			Path:         path,
		})
		metrics.MatchesFoundTotal.Inc()
		f.logger.Debug("Matched file", "path", path)
	}

	// Pre-order: this directory's matches come before its subtrees'
	for _, sub := range subdirs {
		if !f.enter(sub, visited) {
			f.logger.Debug("Skipping already-visited directory", "path", sub)
			continue
		}
		subRecords, err := f.scanDir(sub, targetName, visited)
		if err != nil {
			return nil, err
		}
		records = append(records, subRecords...)
	}

	return records, nil
}

// statEntry resolves entry metadata. Symlinks are resolved to their
// target when followSymlinks is enabled, otherwise the link itself is
// inspected.
func (f *Finder) statEntry(path string, entry os.DirEntry) (os.FileInfo, error) {
	if f.followSymlinks && entry.Type()&os.ModeSymlink != 0 {
		return os.Stat(path)
	}
	return entry.Info()
}

// enter marks dir as visited, returning false when it was seen before.
// Identity is device+inode, so symlink cycles terminate.
func (f *Finder) enter(dir string, visited map[string]bool) bool {
	info, err := os.Stat(dir)
	if err != nil {
		// Let scanDir surface the error through ReadDir
		return true
	}
	id, ok := dirIdentity(dir, info)
	if !ok {
		return true
	}
	if visited[id] {
		return false
	}
	visited[id] = true
	return true
}
