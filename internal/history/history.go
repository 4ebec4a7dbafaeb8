package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dupesweep/internal/finder"
)

// Actions recorded for each deletion attempt
const (
	ActionDeleted = "deleted"
	ActionTrashed = "trashed"
	ActionDryRun  = "dry_run"
)

// DB manages the SQLite database for deletion history
type DB struct {
	db *sql.DB
}

// Record represents a single deletion event
type Record struct {
	ID           int64
	Timestamp    time.Time
	Action       string
	Path         string
	FileName     string
	Folder       string
	CreationDate string // As displayed to the user, YYYY-MM-DD HH:MM:SS UTC
	ErrorMessage string
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// file: prefix with _loc=auto enables automatic DATETIME parsing
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// Test the connection with a real query so the file gets created
	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize database (check permissions on %s): %w", dbPath, err)
	}

	// WAL mode: multiple readers, one writer
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	hdb := &DB{db: db}
	if err = hdb.initSchema(); err != nil {
		return nil, err
	}

	err = nil
	return hdb, nil
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS deletions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		path TEXT NOT NULL,
		file_name TEXT NOT NULL,
		folder TEXT NOT NULL,
		creation_date TEXT,
		error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_timestamp ON deletions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_action ON deletions(action);
	CREATE INDEX IF NOT EXISTS idx_path ON deletions(path);
	CREATE INDEX IF NOT EXISTS idx_file_name ON deletions(file_name);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := d.db.Exec(schema)
	return err
}

// RecordAction inserts a deletion event into the database
func (d *DB) RecordAction(action string, rec finder.FileRecord, errorMsg string) error {
	query := `
	INSERT INTO deletions (
		timestamp, action, path, file_name, folder, creation_date, error_message
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := d.db.Exec(
		query,
		time.Now().UTC(),
		action,
		rec.Path,
		rec.Name,
		rec.Folder,
		rec.CreationDate,
		errorMsg,
	)
	return err
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// Vacuum optimizes the database (run periodically)
func (d *DB) Vacuum() error {
	_, err := d.db.Exec("VACUUM")
	return err
}
