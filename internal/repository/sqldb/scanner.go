package sqldb

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

const projectColumns = `id, user_id, name, client_name, hourly_rate, budget, total_seconds, is_running, start_time, created_at, updated_at`

const timeEntryColumns = `id, project_id, user_id, seconds, start_time, end_time, is_manual, created_at`

const userColumns = `id, email, password_hash, created_at`

// ScanProject scans a single project selected with projectColumns
func ScanProject(scanner Scanner) (*Project, error) {
	p := &Project{}
	var startTime sql.NullInt64
	var createdAt, updatedAt string

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.ClientName,
		&p.HourlyRate,
		&p.Budget,
		&p.TotalSeconds,
		&p.IsRunning,
		&startTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if startTime.Valid {
		ms := startTime.Int64
		p.StartTime = &ms
	}
	if p.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, err
	}

	return p, nil
}

// ScanProjects scans multiple projects from database rows
func ScanProjects(rows Rows) ([]*Project, error) {
	return scanAll(rows, ScanProject)
}

// ScanTimeEntry scans a single time entry selected with timeEntryColumns
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var createdAt string

	err := scanner.Scan(
		&entry.ID,
		&entry.ProjectID,
		&entry.UserID,
		&entry.Seconds,
		&entry.StartTime,
		&entry.EndTime,
		&entry.IsManual,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if entry.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}

	return entry, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	return scanAll(rows, ScanTimeEntry)
}

// ScanUser scans a single user selected with userColumns
func ScanUser(scanner Scanner) (*User, error) {
	u := &User{}
	var createdAt string

	if err := scanner.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if u.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}

	return u, nil
}

func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	results := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
