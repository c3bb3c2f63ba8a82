package services

import (
	"context"

	"go.uber.org/zap"

	"timeledger/internal/domain"
	"timeledger/internal/errors"
	"timeledger/internal/metrics"
	"timeledger/internal/repository/sqldb"
	"timeledger/internal/validation"
)

// timeEntryServiceImpl implements the TimeEntryService interface
type timeEntryServiceImpl struct {
	repo      sqldb.Repository
	mapper    *domain.Mapper
	validator *validation.TimeEntryValidator
	serviceOptions
}

// NewTimeEntryService creates a new TimeEntryService instance
func NewTimeEntryService(repo sqldb.Repository, opts ...Option) TimeEntryService {
	o := newServiceOptions(opts)
	return &timeEntryServiceImpl{
		repo:           repo,
		mapper:         domain.NewMapper(),
		validator:      validation.NewTimeEntryValidatorWithConfig(o.config),
		serviceOptions: o,
	}
}

// ListTimeEntries returns the user's entries, most recent first
func (s *timeEntryServiceImpl) ListTimeEntries(ctx context.Context, userID string, filter domain.EntryFilter) ([]domain.TimeEntry, error) {
	dbEntries, err := s.repo.ListTimeEntries(ctx, userID, s.mapper.EntryFilter.ToDatabase(filter))
	if err != nil {
		return nil, err
	}
	return s.mapper.TimeEntry.FromDatabaseSlice(dbEntries), nil
}

// AddManualEntry books declared hours onto a project
func (s *timeEntryServiceImpl) AddManualEntry(ctx context.Context, projectID, userID string, hours float64) (*EntryMutation, error) {
	if err := s.validator.ValidateHours(hours); err != nil {
		return nil, validation.ToAppError(err)
	}

	var entry domain.TimeEntry
	var project domain.Project

	err := s.repo.WithinTx(ctx, func(q sqldb.Querier) error {
		dbProject, err := q.GetProjectForUpdate(ctx, projectID, userID)
		if err != nil {
			return err
		}

		now := s.now()
		entry = domain.NewManualEntry(s.newID(), projectID, userID, domain.HoursToSeconds(hours), now)
		dbEntry := s.mapper.TimeEntry.ToDatabase(entry)
		if err := q.CreateTimeEntry(ctx, &dbEntry); err != nil {
			return err
		}

		project = s.mapper.Project.FromDatabase(*dbProject).AddSeconds(entry.Seconds, now)
		row := s.mapper.Project.ToDatabase(project)
		return q.UpdateProject(ctx, &row)
	})
	if err != nil {
		return nil, err
	}

	metrics.AddBilledSeconds(metrics.SourceManual, entry.Seconds)
	metrics.IncrementTimeEntryMutation("create")
	s.logger.Info("manual entry added",
		zap.String("entry_id", entry.ID),
		zap.String("project_id", projectID),
		zap.Int64("seconds", entry.Seconds))

	return &EntryMutation{Entry: &entry, Project: &project}, nil
}

// UpdateEntryHours rebills an entry and moves the project total by the difference.
// The total is floored at zero. An entry whose project is gone is still updated.
func (s *timeEntryServiceImpl) UpdateEntryHours(ctx context.Context, entryID, userID string, hours float64) (*EntryMutation, error) {
	if err := s.validator.ValidateHours(hours); err != nil {
		return nil, validation.ToAppError(err)
	}

	var updated domain.TimeEntry
	var project *domain.Project

	err := s.repo.WithinTx(ctx, func(q sqldb.Querier) error {
		dbEntry, err := q.GetTimeEntry(ctx, entryID, userID)
		if err != nil {
			return err
		}
		entry := s.mapper.TimeEntry.FromDatabase(*dbEntry)

		newSeconds := domain.HoursToSeconds(hours)
		difference := newSeconds - entry.Seconds

		updated = entry.WithSeconds(newSeconds)
		row := s.mapper.TimeEntry.ToDatabase(updated)
		if err := q.UpdateTimeEntry(ctx, &row); err != nil {
			return err
		}

		project, err = s.retotal(ctx, q, entry.ProjectID, userID, difference)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrementTimeEntryMutation("update")
	return &EntryMutation{Entry: &updated, Project: project}, nil
}

// DeleteEntry removes an entry and subtracts its seconds from the project, floored at zero
func (s *timeEntryServiceImpl) DeleteEntry(ctx context.Context, entryID, userID string) (*EntryMutation, error) {
	var project *domain.Project

	err := s.repo.WithinTx(ctx, func(q sqldb.Querier) error {
		dbEntry, err := q.GetTimeEntry(ctx, entryID, userID)
		if err != nil {
			return err
		}
		if err := q.DeleteTimeEntry(ctx, entryID, userID); err != nil {
			return err
		}

		project, err = s.retotal(ctx, q, dbEntry.ProjectID, userID, -dbEntry.Seconds)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrementTimeEntryMutation("delete")
	return &EntryMutation{Project: project}, nil
}

// retotal applies a seconds delta to the entry's project. A missing project is not an error.
func (s *timeEntryServiceImpl) retotal(ctx context.Context, q sqldb.Querier, projectID, userID string, delta int64) (*domain.Project, error) {
	dbProject, err := q.GetProjectForUpdate(ctx, projectID, userID)
	if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		s.logger.Warn("time entry refers to a missing project", zap.String("project_id", projectID))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	project := s.mapper.Project.FromDatabase(*dbProject).AddSeconds(delta, s.now())
	row := s.mapper.Project.ToDatabase(project)
	if err := q.UpdateProject(ctx, &row); err != nil {
		return nil, err
	}
	return &project, nil
}
