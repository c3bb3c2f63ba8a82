package services

import (
	"context"
	"time"

	"timeledger/internal/domain"
	"timeledger/internal/export"
)

// CreateProjectInput holds the fields of a new project
type CreateProjectInput struct {
	Name       string  `json:"name"`
	ClientName string  `json:"clientName"`
	HourlyRate float64 `json:"hourlyRate"`
	Budget     float64 `json:"budget"`
}

// TimerStopResult is the outcome of stopping a timer
type TimerStopResult struct {
	Project *domain.Project   `json:"project"`
	Entry   *domain.TimeEntry `json:"entry"`
	Elapsed int64             `json:"elapsed"`
}

// TimerSnapshot is the live reading of a project timer
type TimerSnapshot struct {
	Seconds   int64 `json:"seconds"`
	IsRunning bool  `json:"isRunning"`
}

// EntryMutation is the outcome of a time entry write.
// Project is nil when the entry belonged to a project that no longer exists.
type EntryMutation struct {
	Entry   *domain.TimeEntry `json:"entry,omitempty"`
	Project *domain.Project   `json:"project"`
}

// ReportType selects how report rows are grouped
type ReportType string

const (
	ReportTypeAll       ReportType = "all"
	ReportTypeByClient  ReportType = "by-client"
	ReportTypeByProject ReportType = "by-project"
)

// DateFilter names a report window relative to now
type DateFilter string

const (
	DateFilterAll       DateFilter = "all"
	DateFilterToday     DateFilter = "today"
	DateFilterThisWeek  DateFilter = "this-week"
	DateFilterThisMonth DateFilter = "this-month"
	DateFilterThisYear  DateFilter = "this-year"
	DateFilterCustom    DateFilter = "custom"
)

// ReportRequest describes a report. Start and End are only read for the custom filter.
type ReportRequest struct {
	Type       ReportType `json:"type"`
	DateFilter DateFilter `json:"dateFilter"`
	Start      *time.Time `json:"startDate,omitempty"`
	End        *time.Time `json:"endDate,omitempty"`
}

// ReportTotals sums every row of a report
type ReportTotals struct {
	EntryCount int     `json:"entryCount"`
	Hours      float64 `json:"hours"`
	Billing    float64 `json:"billing"`
}

// Report is a read-only aggregation of time entries
type Report struct {
	Type   ReportType   `json:"type"`
	From   *time.Time   `json:"from,omitempty"`
	To     *time.Time   `json:"to,omitempty"`
	Rows   []export.Row `json:"rows"`
	Totals ReportTotals `json:"totals"`
}

// AuthResult is returned by registration and login
type AuthResult struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

// ProjectService owns the project ledger and its timers
type ProjectService interface {
	// Project CRUD operations
	CreateProject(ctx context.Context, userID string, input CreateProjectInput) (*domain.Project, error)
	GetProject(ctx context.Context, id, userID string) (*domain.Project, error)
	ListProjects(ctx context.Context, userID string) ([]domain.Project, error)
	UpdateProject(ctx context.Context, id, userID string, update domain.ProjectUpdate) (*domain.Project, error)
	DeleteProject(ctx context.Context, id, userID string) error

	// Timer operations
	StartTimer(ctx context.Context, id, userID string) (*domain.Project, error)
	StopTimer(ctx context.Context, id, userID string) (*TimerStopResult, error)
	CurrentTimer(ctx context.Context, id, userID string) (*TimerSnapshot, error)
}

// TimeEntryService owns the time entry log and keeps project totals in step with it
type TimeEntryService interface {
	ListTimeEntries(ctx context.Context, userID string, filter domain.EntryFilter) ([]domain.TimeEntry, error)
	AddManualEntry(ctx context.Context, projectID, userID string, hours float64) (*EntryMutation, error)
	UpdateEntryHours(ctx context.Context, entryID, userID string, hours float64) (*EntryMutation, error)
	DeleteEntry(ctx context.Context, entryID, userID string) (*EntryMutation, error)
}

// WarningService derives advisory warnings from current project state
type WarningService interface {
	GetWarnings(ctx context.Context, userID string) ([]domain.Warning, error)
	EvaluateWarnings(projects []domain.Project, now time.Time) []domain.Warning
}

// ReportingService builds reports over a user's time entries
type ReportingService interface {
	GenerateReport(ctx context.Context, userID string, req ReportRequest) (*Report, error)
	AggregateReport(reportType ReportType, projects []domain.Project, entries []domain.TimeEntry) (*Report, error)
	ResolveWindow(req ReportRequest) (from, to *time.Time, err error)
}

// AuthService is the identity collaborator: it issues and verifies credentials
type AuthService interface {
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyToken(ctx context.Context, token string) (*domain.Identity, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	ProjectService   ProjectService
	TimeEntryService TimeEntryService
	WarningService   WarningService
	ReportingService ReportingService
	AuthService      AuthService
}
