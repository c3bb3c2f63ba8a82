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

const (
	msgCannotEditRunning = "Cannot edit while timer is running"
	msgTimerRunning      = "Timer already running"
	msgAnotherTimer      = "Another timer is already running"
	msgTimerNotRunning   = "Timer is not running"
)

// projectServiceImpl implements the ProjectService interface
type projectServiceImpl struct {
	repo      sqldb.Repository
	mapper    *domain.Mapper
	validator *validation.ProjectValidator
	serviceOptions
}

// NewProjectService creates a new ProjectService instance
func NewProjectService(repo sqldb.Repository, opts ...Option) ProjectService {
	o := newServiceOptions(opts)
	return &projectServiceImpl{
		repo:           repo,
		mapper:         domain.NewMapper(),
		validator:      validation.NewProjectValidatorWithConfig(o.config),
		serviceOptions: o,
	}
}

// CreateProject validates the input and stores a stopped project with no time
func (s *projectServiceImpl) CreateProject(ctx context.Context, userID string, input CreateProjectInput) (*domain.Project, error) {
	if err := s.validator.ValidateForCreation(input.Name, input.ClientName, input.HourlyRate, input.Budget); err != nil {
		return nil, validation.ToAppError(err)
	}

	project := domain.NewProject(s.newID(), userID, input.Name, input.ClientName, input.HourlyRate, input.Budget, s.now())
	dbProject := s.mapper.Project.ToDatabase(project)
	if err := s.repo.CreateProject(ctx, &dbProject); err != nil {
		return nil, err
	}

	s.logger.Info("project created", zap.String("project_id", project.ID), zap.String("user_id", userID))
	return &project, nil
}

// GetProject returns one project of the user
func (s *projectServiceImpl) GetProject(ctx context.Context, id, userID string) (*domain.Project, error) {
	dbProject, err := s.repo.GetProject(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	project := s.mapper.Project.FromDatabase(*dbProject)
	return &project, nil
}

// ListProjects returns every project of the user, newest first
func (s *projectServiceImpl) ListProjects(ctx context.Context, userID string) ([]domain.Project, error) {
	dbProjects, err := s.repo.ListProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.mapper.Project.FromDatabaseSlice(dbProjects), nil
}

// UpdateProject applies the provided fields. A running project cannot be edited.
func (s *projectServiceImpl) UpdateProject(ctx context.Context, id, userID string, update domain.ProjectUpdate) (*domain.Project, error) {
	var updated domain.Project

	err := s.repo.WithinTx(ctx, func(q sqldb.Querier) error {
		dbProject, err := q.GetProjectForUpdate(ctx, id, userID)
		if err != nil {
			return err
		}
		project := s.mapper.Project.FromDatabase(*dbProject)

		if !project.CanEdit() {
			return errors.NewValidationError(msgCannotEditRunning, nil)
		}
		if err := s.validator.ValidateForUpdate(update); err != nil {
			return validation.ToAppError(err)
		}

		updated = project.Apply(update, s.now())
		row := s.mapper.Project.ToDatabase(updated)
		return q.UpdateProject(ctx, &row)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteProject removes the project after all of its time entries
func (s *projectServiceImpl) DeleteProject(ctx context.Context, id, userID string) error {
	var removed int64

	err := s.repo.WithinTx(ctx, func(q sqldb.Querier) error {
		if _, err := q.GetProjectForUpdate(ctx, id, userID); err != nil {
			return err
		}

		var err error
		removed, err = q.DeleteTimeEntriesByProject(ctx, id, userID)
		if err != nil {
			return err
		}
		return q.DeleteProject(ctx, id, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted",
		zap.String("project_id", id),
		zap.String("user_id", userID),
		zap.Int64("entries_removed", removed))
	return nil
}

// StartTimer starts the project timer. At most one timer per user runs at a time;
// the check runs under the transaction and the unique running index catches a racing writer.
func (s *projectServiceImpl) StartTimer(ctx context.Context, id, userID string) (result *domain.Project, err error) {
	defer func() { metrics.IncrementTimerOperation("start", err) }()

	var started domain.Project

	err = s.repo.WithinTx(ctx, func(q sqldb.Querier) error {
		dbProject, err := q.GetProjectForUpdate(ctx, id, userID)
		if err != nil {
			return err
		}
		project := s.mapper.Project.FromDatabase(*dbProject)

		if project.IsRunning {
			return errors.NewValidationError(msgTimerRunning, nil)
		}

		running, err := q.ListRunningProjects(ctx, userID)
		if err != nil {
			return err
		}
		if len(running) > 0 {
			return errors.NewConflictError(msgAnotherTimer, nil).
				WithContext("running_project_id", running[0].ID)
		}

		now := s.now()
		started = project.Start(domain.ToMillis(now), now)
		row := s.mapper.Project.ToDatabase(started)
		if err := q.UpdateProject(ctx, &row); err != nil {
			if errors.IsErrorType(err, errors.ErrorTypeConflict) {
				return errors.NewConflictError(msgAnotherTimer, err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("timer started", zap.String("project_id", id), zap.String("user_id", userID))
	return &started, nil
}

// StopTimer stops the timer and books the elapsed time as a tracked entry in the same transaction
func (s *projectServiceImpl) StopTimer(ctx context.Context, id, userID string) (result *TimerStopResult, err error) {
	defer func() { metrics.IncrementTimerOperation("stop", err) }()

	var stopped domain.Project
	var entry domain.TimeEntry

	err = s.repo.WithinTx(ctx, func(q sqldb.Querier) error {
		dbProject, err := q.GetProjectForUpdate(ctx, id, userID)
		if err != nil {
			return err
		}
		project := s.mapper.Project.FromDatabase(*dbProject)

		if !project.IsRunning || project.StartTime == nil {
			return errors.NewValidationError(msgTimerNotRunning, nil)
		}

		now := s.now()
		startMs := *project.StartTime
		endMs := domain.ToMillis(now)
		if endMs < startMs {
			s.logger.Warn("timer start is in the future, booking zero seconds",
				zap.String("project_id", id),
				zap.Int64("start_time", startMs),
				zap.Int64("end_time", endMs))
			endMs = startMs
		}

		entry, err = domain.NewTrackedEntry(s.newID(), project.ID, userID, startMs, endMs, now)
		if err != nil {
			return errors.NewValidationError(err.Error(), err)
		}
		dbEntry := s.mapper.TimeEntry.ToDatabase(entry)
		if err := q.CreateTimeEntry(ctx, &dbEntry); err != nil {
			return err
		}

		stopped = project.Stop(entry.Seconds, now)
		row := s.mapper.Project.ToDatabase(stopped)
		return q.UpdateProject(ctx, &row)
	})
	if err != nil {
		return nil, err
	}

	metrics.AddBilledSeconds(metrics.SourceTracked, entry.Seconds)
	metrics.IncrementTimeEntryMutation("create")
	s.logger.Info("timer stopped",
		zap.String("project_id", id),
		zap.String("user_id", userID),
		zap.Int64("elapsed_seconds", entry.Seconds))

	return &TimerStopResult{Project: &stopped, Entry: &entry, Elapsed: entry.Seconds}, nil
}

// CurrentTimer reads the accumulated seconds including any running session
func (s *projectServiceImpl) CurrentTimer(ctx context.Context, id, userID string) (*TimerSnapshot, error) {
	project, err := s.GetProject(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	nowMs := domain.ToMillis(s.now())
	return &TimerSnapshot{
		Seconds:   project.CurrentSeconds(nowMs),
		IsRunning: project.IsRunning,
	}, nil
}
