package services

import "timeledger/internal/repository/sqldb"

// NewServiceContainer builds every service over one repository with shared options
func NewServiceContainer(repo sqldb.Repository, opts ...Option) *ServiceContainer {
	return &ServiceContainer{
		ProjectService:   NewProjectService(repo, opts...),
		TimeEntryService: NewTimeEntryService(repo, opts...),
		WarningService:   NewWarningService(repo, opts...),
		ReportingService: NewReportingService(repo, opts...),
		AuthService:      NewAuthService(repo, opts...),
	}
}
