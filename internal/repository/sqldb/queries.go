package sqldb

import (
	"context"
	"strings"
	"time"
)

const (
	entityUser      = "User"
	entityProject   = "Project"
	entityTimeEntry = "Time entry"
)

// Querier holds the per-entity operations. It is implemented over both the
// connection pool and an open transaction.
type Querier interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// Projects, always scoped to their owner
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id, userID string) (*Project, error)
	GetProjectForUpdate(ctx context.Context, id, userID string) (*Project, error)
	ListProjects(ctx context.Context, userID string) ([]*Project, error)
	ListRunningProjects(ctx context.Context, userID string) ([]*Project, error)
	UpdateProject(ctx context.Context, project *Project) error
	DeleteProject(ctx context.Context, id, userID string) error

	// Time entries
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	GetTimeEntry(ctx context.Context, id, userID string) (*TimeEntry, error)
	ListTimeEntries(ctx context.Context, userID string, filter EntryFilter) ([]*TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id, userID string) error
	DeleteTimeEntriesByProject(ctx context.Context, projectID, userID string) (int64, error)
}

// queries implements Querier on top of a pool or a transaction
type queries struct {
	db      DBTX
	dialect Dialect
	timeout time.Duration
}

func (q *queries) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, q.timeout)
}

func (q *queries) bind(query string) string {
	return q.dialect.Rebind(query)
}

// CreateUser inserts a new user
func (q *queries) CreateUser(ctx context.Context, user *User) error {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`)
	_, err := Execute(ctx, q.db, "insert user", query, user.ID, user.Email, user.PasswordHash, FormatTimeForDB(user.CreatedAt))
	return err
}

// GetUser retrieves a user by ID
func (q *queries) GetUser(ctx context.Context, id string) (*User, error) {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	return QuerySingle(ctx, q.db, query, ScanUser, entityUser, id, id)
}

// GetUserByEmail retrieves a user by email address
func (q *queries) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)
	return QuerySingle(ctx, q.db, query, ScanUser, entityUser, email, email)
}

// CreateProject inserts a new project
func (q *queries) CreateProject(ctx context.Context, p *Project) error {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`
	INSERT INTO projects (` + projectColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := Execute(ctx, q.db, "insert project", query,
		p.ID, p.UserID, p.Name, p.ClientName, p.HourlyRate, p.Budget, p.TotalSeconds,
		p.IsRunning, NullableMillis(p.StartTime), FormatTimeForDB(p.CreatedAt), FormatTimeForDB(p.UpdatedAt))
	return err
}

// GetProject retrieves a project by ID for its owner
func (q *queries) GetProject(ctx context.Context, id, userID string) (*Project, error) {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND user_id = ?`)
	return QuerySingle(ctx, q.db, query, ScanProject, entityProject, id, id, userID)
}

// GetProjectForUpdate retrieves a project and locks its row until the transaction ends
func (q *queries) GetProjectForUpdate(ctx context.Context, id, userID string) (*Project, error) {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND user_id = ?` + q.dialect.ForUpdate())
	return QuerySingle(ctx, q.db, query, ScanProject, entityProject, id, id, userID)
}

// ListProjects retrieves all projects of a user, newest first
func (q *queries) ListProjects(ctx context.Context, userID string) ([]*Project, error) {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`
	SELECT ` + projectColumns + `
	FROM projects
	WHERE user_id = ?
	ORDER BY created_at DESC, id ASC`)
	return QueryMultiple(ctx, q.db, query, ScanProjects, "projects", userID)
}

// ListRunningProjects retrieves the projects of a user whose timer is running,
// locking them when called inside a transaction
func (q *queries) ListRunningProjects(ctx context.Context, userID string) ([]*Project, error) {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`
	SELECT ` + projectColumns + `
	FROM projects
	WHERE user_id = ? AND is_running = ?` + q.dialect.ForUpdate())
	return QueryMultiple(ctx, q.db, query, ScanProjects, "running projects", userID, true)
}

// UpdateProject writes every mutable column of a project
func (q *queries) UpdateProject(ctx context.Context, p *Project) error {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`
	UPDATE projects
	SET name = ?, client_name = ?, hourly_rate = ?, budget = ?, total_seconds = ?,
		is_running = ?, start_time = ?, updated_at = ?
	WHERE id = ? AND user_id = ?`)

	return ExecuteWithRowsAffected(ctx, q.db, query, entityProject, p.ID,
		p.Name, p.ClientName, p.HourlyRate, p.Budget, p.TotalSeconds,
		p.IsRunning, NullableMillis(p.StartTime), FormatTimeForDB(p.UpdatedAt),
		p.ID, p.UserID)
}

// DeleteProject deletes a project by ID for its owner
func (q *queries) DeleteProject(ctx context.Context, id, userID string) error {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`DELETE FROM projects WHERE id = ? AND user_id = ?`)
	return ExecuteWithRowsAffected(ctx, q.db, query, entityProject, id, id, userID)
}

// CreateTimeEntry inserts a new time entry
func (q *queries) CreateTimeEntry(ctx context.Context, e *TimeEntry) error {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`
	INSERT INTO time_entries (` + timeEntryColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := Execute(ctx, q.db, "insert time entry", query,
		e.ID, e.ProjectID, e.UserID, e.Seconds, e.StartTime, e.EndTime, e.IsManual, FormatTimeForDB(e.CreatedAt))
	return err
}

// GetTimeEntry retrieves a time entry by ID for its owner
func (q *queries) GetTimeEntry(ctx context.Context, id, userID string) (*TimeEntry, error) {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = ? AND user_id = ?`)
	return QuerySingle(ctx, q.db, query, ScanTimeEntry, entityTimeEntry, id, id, userID)
}

// ListTimeEntries retrieves the entries of a user matching the filter, most recent first
func (q *queries) ListTimeEntries(ctx context.Context, userID string, filter EntryFilter) ([]*TimeEntry, error) {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	conditions := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.ProjectID != nil {
		conditions = append(conditions, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.FromMs != nil {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, *filter.FromMs)
	}
	if filter.ToMs != nil {
		conditions = append(conditions, "start_time <= ?")
		args = append(args, *filter.ToMs)
	}

	query := `
	SELECT ` + timeEntryColumns + `
	FROM time_entries
	WHERE ` + strings.Join(conditions, " AND ") + `
	ORDER BY start_time DESC, created_at DESC, id DESC`

	return QueryMultiple(ctx, q.db, q.bind(query), ScanTimeEntries, "time entries", args...)
}

// UpdateTimeEntry writes the billed seconds and end time of an entry
func (q *queries) UpdateTimeEntry(ctx context.Context, e *TimeEntry) error {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`UPDATE time_entries SET seconds = ?, end_time = ? WHERE id = ? AND user_id = ?`)
	return ExecuteWithRowsAffected(ctx, q.db, query, entityTimeEntry, e.ID, e.Seconds, e.EndTime, e.ID, e.UserID)
}

// DeleteTimeEntry deletes a time entry by ID for its owner
func (q *queries) DeleteTimeEntry(ctx context.Context, id, userID string) error {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`DELETE FROM time_entries WHERE id = ? AND user_id = ?`)
	return ExecuteWithRowsAffected(ctx, q.db, query, entityTimeEntry, id, id, userID)
}

// DeleteTimeEntriesByProject deletes every entry of a project and returns how many were removed
func (q *queries) DeleteTimeEntriesByProject(ctx context.Context, projectID, userID string) (int64, error) {
	ctx, cancel := q.ctx(ctx)
	defer cancel()

	query := q.bind(`DELETE FROM time_entries WHERE project_id = ? AND user_id = ?`)
	return Execute(ctx, q.db, "delete project time entries", query, projectID, userID)
}
