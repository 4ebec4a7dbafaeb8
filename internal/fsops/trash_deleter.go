package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TrashRecord tracks a file relocated into the trash directory,
// preserving enough information to restore it by hand.
type TrashRecord struct {
	ID           string    `json:"id"`
	OriginalPath string    `json:"original_path"`
	TrashName    string    `json:"trash_name"`
	DeletedAt    time.Time `json:"deleted_at"`
}

// TrashDeleter implements Deleter by moving files into a trash
// directory instead of unlinking them.
type TrashDeleter struct {
	Dir     string
	Records []TrashRecord
}

func NewTrashDeleter(dir string) *TrashDeleter {
	return &TrashDeleter{Dir: dir}
}

func (t *TrashDeleter) Remove(path string) error {
	if t.Dir == "" {
		return fmt.Errorf("trash directory not configured")
	}
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return fmt.Errorf("create trash directory: %w", err)
	}

	id := uuid.NewString()
	trashName := id + "__" + filepath.Base(path)
	dest := filepath.Join(t.Dir, trashName)

	if err := movePath(path, dest); err != nil {
		return fmt.Errorf("move %s to trash: %w", path, err)
	}

	t.Records = append(t.Records, TrashRecord{
		ID:           id,
		OriginalPath: path,
		TrashName:    trashName,
		DeletedAt:    time.Now().UTC(),
	})
	return nil
}

// movePath renames when possible and falls back to copy-then-remove
// when source and trash live on different filesystems.
func movePath(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}

	return os.Remove(src)
}
