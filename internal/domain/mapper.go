package domain

import (
	"timeledger/internal/repository/sqldb"
)

// ProjectMapper handles conversion between domain and database Project models.
type ProjectMapper struct{}

// NewProjectMapper creates a new ProjectMapper instance.
func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

// ToDatabase converts a domain Project to a database Project.
func (m *ProjectMapper) ToDatabase(p Project) sqldb.Project {
	return sqldb.Project{
		ID:           p.ID,
		UserID:       p.UserID,
		Name:         p.Name,
		ClientName:   p.ClientName,
		HourlyRate:   p.HourlyRate,
		Budget:       p.Budget,
		TotalSeconds: p.TotalSeconds,
		IsRunning:    p.IsRunning,
		StartTime:    copyMillis(p.StartTime),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromDatabase converts a database Project to a domain Project.
func (m *ProjectMapper) FromDatabase(p sqldb.Project) Project {
	return Project{
		ID:           p.ID,
		UserID:       p.UserID,
		Name:         p.Name,
		ClientName:   p.ClientName,
		HourlyRate:   p.HourlyRate,
		Budget:       p.Budget,
		TotalSeconds: p.TotalSeconds,
		IsRunning:    p.IsRunning,
		StartTime:    copyMillis(p.StartTime),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromDatabaseSlice converts database Projects to domain Projects.
func (m *ProjectMapper) FromDatabaseSlice(dbProjects []*sqldb.Project) []Project {
	projects := make([]Project, len(dbProjects))
	for i, p := range dbProjects {
		projects[i] = m.FromDatabase(*p)
	}
	return projects
}

// TimeEntryMapper handles conversion between domain and database TimeEntry models.
type TimeEntryMapper struct{}

// NewTimeEntryMapper creates a new TimeEntryMapper instance.
func NewTimeEntryMapper() *TimeEntryMapper {
	return &TimeEntryMapper{}
}

// ToDatabase converts a domain TimeEntry to a database TimeEntry.
func (m *TimeEntryMapper) ToDatabase(e TimeEntry) sqldb.TimeEntry {
	return sqldb.TimeEntry{
		ID:        e.ID,
		ProjectID: e.ProjectID,
		UserID:    e.UserID,
		Seconds:   e.Seconds,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		IsManual:  e.IsManual,
		CreatedAt: e.CreatedAt,
	}
}

// FromDatabase converts a database TimeEntry to a domain TimeEntry.
func (m *TimeEntryMapper) FromDatabase(e sqldb.TimeEntry) TimeEntry {
	return TimeEntry{
		ID:        e.ID,
		ProjectID: e.ProjectID,
		UserID:    e.UserID,
		Seconds:   e.Seconds,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		IsManual:  e.IsManual,
		CreatedAt: e.CreatedAt,
	}
}

// FromDatabaseSlice converts database TimeEntries to domain TimeEntries.
func (m *TimeEntryMapper) FromDatabaseSlice(dbEntries []*sqldb.TimeEntry) []TimeEntry {
	entries := make([]TimeEntry, len(dbEntries))
	for i, e := range dbEntries {
		entries[i] = m.FromDatabase(*e)
	}
	return entries
}

// UserMapper handles conversion between domain and database User models.
type UserMapper struct{}

// NewUserMapper creates a new UserMapper instance.
func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

// ToDatabase converts a domain User to a database User.
func (m *UserMapper) ToDatabase(u User) sqldb.User {
	return sqldb.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

// FromDatabase converts a database User to a domain User.
func (m *UserMapper) FromDatabase(u sqldb.User) User {
	return User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

// EntryFilterMapper converts listing filters into their storage form.
type EntryFilterMapper struct{}

// NewEntryFilterMapper creates a new EntryFilterMapper instance.
func NewEntryFilterMapper() *EntryFilterMapper {
	return &EntryFilterMapper{}
}

// ToDatabase converts a domain EntryFilter to millisecond bounds.
func (m *EntryFilterMapper) ToDatabase(f EntryFilter) sqldb.EntryFilter {
	var out sqldb.EntryFilter
	if f.ProjectID != nil {
		id := *f.ProjectID
		out.ProjectID = &id
	}
	if f.From != nil {
		ms := ToMillis(*f.From)
		out.FromMs = &ms
	}
	if f.To != nil {
		ms := ToMillis(*f.To)
		out.ToMs = &ms
	}
	return out
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Project     *ProjectMapper
	TimeEntry   *TimeEntryMapper
	User        *UserMapper
	EntryFilter *EntryFilterMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Project:     NewProjectMapper(),
		TimeEntry:   NewTimeEntryMapper(),
		User:        NewUserMapper(),
		EntryFilter: NewEntryFilterMapper(),
	}
}

func copyMillis(ms *int64) *int64 {
	if ms == nil {
		return nil
	}
	v := *ms
	return &v
}
