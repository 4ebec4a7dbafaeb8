package finder

import "fmt"

// TimeLayout is the display format for creation timestamps (UTC)
const TimeLayout = "2006-01-02 15:04:05"

// FileRecord represents one matched file. It is immutable after
// construction; deletion of the underlying file is the session's job.
type FileRecord struct {
	Name         string // Exact base name, byte-equal to the search target
	Folder       string // Directory being scanned when the match was found
	CreationDate string // Creation timestamp, YYYY-MM-DD HH:MM:SS in UTC
	Path         string // Full path usable for deletion
}

// NewFileRecord constructs a record from its fields. Pure assignment,
// no derived transformation.
func NewFileRecord(name, folder, creationDate, path string) FileRecord {
	return FileRecord{
		Name:         name,
		Folder:       folder,
		CreationDate: creationDate,
		Path:         path,
	}
}

// Describe renders the record for the interactive listing
func (r FileRecord) Describe() string {
	return fmt.Sprintf("\tfile name: %s\n\tdirectory: %s\n\tcreation date: %s",
		r.Name, r.Folder, r.CreationDate)
}
