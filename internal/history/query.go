package history

import (
	"database/sql"
	"time"
)

const recordColumns = `id, timestamp, action, path, file_name, folder, creation_date, error_message`

// Recent returns the N most recent deletion events
func (d *DB) Recent(limit int) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM deletions
	ORDER BY timestamp DESC
	LIMIT ?
	`

	return d.queryRecords(query, limit)
}

// ByAction returns deletions filtered by action type
func (d *DB) ByAction(action string) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM deletions
	WHERE action = ?
	ORDER BY timestamp DESC
	`

	return d.queryRecords(query, action)
}

// ByFileName returns deletions matching an exact file name
func (d *DB) ByFileName(name string) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM deletions
	WHERE file_name = ?
	ORDER BY timestamp DESC
	`

	return d.queryRecords(query, name)
}

// ByDateRange returns deletions within a time range
func (d *DB) ByDateRange(start, end time.Time) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM deletions
	WHERE timestamp BETWEEN ? AND ?
	ORDER BY timestamp DESC
	`

	return d.queryRecords(query, start, end)
}

func (d *DB) queryRecords(query string, args ...interface{}) ([]Record, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var creationDate, errorMessage sql.NullString
		if err := rows.Scan(
			&r.ID,
			&r.Timestamp,
			&r.Action,
			&r.Path,
			&r.FileName,
			&r.Folder,
			&creationDate,
			&errorMessage,
		); err != nil {
			return nil, err
		}
		r.CreationDate = creationDate.String
		r.ErrorMessage = errorMessage.String
		records = append(records, r)
	}
	return records, rows.Err()
}
