package services

import (
	"context"
	"time"

	"timeledger/internal/domain"
	"timeledger/internal/repository/sqldb"
)

// warningServiceImpl implements the WarningService interface
type warningServiceImpl struct {
	repo   sqldb.Repository
	mapper *domain.Mapper
	serviceOptions
}

// NewWarningService creates a new WarningService instance
func NewWarningService(repo sqldb.Repository, opts ...Option) WarningService {
	return &warningServiceImpl{
		repo:           repo,
		mapper:         domain.NewMapper(),
		serviceOptions: newServiceOptions(opts),
	}
}

// GetWarnings evaluates the user's projects as they are now
func (s *warningServiceImpl) GetWarnings(ctx context.Context, userID string) ([]domain.Warning, error) {
	dbProjects, err := s.repo.ListProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.EvaluateWarnings(s.mapper.Project.FromDatabaseSlice(dbProjects), s.now()), nil
}

// EvaluateWarnings emits at most one budget warning per project (exceeded takes precedence)
// and, independently, a long-session warning for a timer running past the threshold.
func (s *warningServiceImpl) EvaluateWarnings(projects []domain.Project, now time.Time) []domain.Warning {
	billing := s.config.Billing
	threshold := int64(billing.LongSessionThreshold / time.Second)
	nowMs := domain.ToMillis(now)

	warnings := make([]domain.Warning, 0)
	for _, p := range projects {
		percent := p.BudgetPercent()
		switch {
		case p.Budget > 0 && percent >= billing.BudgetExceededPercent:
			warnings = append(warnings, domain.NewBudgetWarning(s.newID(), p, percent, true, now))
		case p.Budget > 0 && percent >= billing.BudgetWarningPercent:
			warnings = append(warnings, domain.NewBudgetWarning(s.newID(), p, percent, false, now))
		}

		if !p.IsRunning || threshold <= 0 {
			continue
		}
		if running := p.RunningSeconds(nowMs); running >= threshold {
			hours := domain.SecondsToHours(running)
			warnings = append(warnings, domain.NewLongSessionWarning(s.newID(), p, hours, now))
		}
	}
	return warnings
}
