package sqldb

import "time"

// User is a row of the users table
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Project is a row of the projects table.
// StartTime holds epoch milliseconds and is NULL while the timer is stopped.
type Project struct {
	ID           string
	UserID       string
	Name         string
	ClientName   string
	HourlyRate   float64
	Budget       float64
	TotalSeconds int64
	IsRunning    bool
	StartTime    *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TimeEntry is a row of the time_entries table. Start and end are epoch milliseconds.
type TimeEntry struct {
	ID        string
	ProjectID string
	UserID    string
	Seconds   int64
	StartTime int64
	EndTime   int64
	IsManual  bool
	CreatedAt time.Time
}

// EntryFilter restricts ListTimeEntries. Bounds apply to start_time and are inclusive.
type EntryFilter struct {
	ProjectID *string
	FromMs    *int64
	ToMs      *int64
}
